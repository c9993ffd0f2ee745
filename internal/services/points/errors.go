package points

import "errors"

var (
	// ErrInvalidAmount: amount <= 0 while the positive-amount policy is on,
	// or an amount whose sign cannot be applied.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrBalanceCeilingExceeded: the new balance would pass Policy.MaxBalance
	// or overflow int64.
	ErrBalanceCeilingExceeded = errors.New("balance ceiling exceeded")
	// ErrInsufficientBalance: a use would leave the balance negative while
	// the policy forbids it, or underflow int64.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrLockAcquisition: the user's lock was not obtained before the lock
	// timeout or the caller's context ended.
	ErrLockAcquisition = errors.New("lock acquisition failed")
)

// IsRejected reports whether err is a policy rejection, as opposed to an
// infrastructure failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrBalanceCeilingExceeded) ||
		errors.Is(err, ErrInsufficientBalance)
}
