package points

import (
	"fmt"
	"math"

	"github.com/fastprodman/pointledger/internal/repos/history"
)

// Policy holds the optional checks applied before a balance is written.
// The zero value disables every check.
type Policy struct {
	// RequirePositive rejects amounts <= 0.
	RequirePositive bool
	// MaxBalance, when > 0, is the highest balance a charge may produce.
	MaxBalance int64
	// ForbidNegative rejects a use that would leave the balance below zero.
	ForbidNegative bool
}

// apply returns the balance that results from applying amount to current,
// or a rejection error. Overflow is always rejected.
func (p Policy) apply(txType history.TxType, current, amount int64) (int64, error) {
	if p.RequirePositive && amount <= 0 {
		return 0, fmt.Errorf("%w: %d must be positive", ErrInvalidAmount, amount)
	}
	if txType == history.Use && amount == math.MinInt64 {
		return 0, fmt.Errorf("%w: %d cannot be negated", ErrInvalidAmount, amount)
	}

	delta := txType.Signed(amount)
	next := current + delta

	switch {
	case delta > 0 && next < current:
		return 0, fmt.Errorf("%w: overflow", ErrBalanceCeilingExceeded)
	case delta < 0 && next > current:
		return 0, fmt.Errorf("%w: underflow", ErrInsufficientBalance)
	}

	if txType == history.Charge && p.MaxBalance > 0 && next > p.MaxBalance {
		return 0, fmt.Errorf("%w: %d > %d", ErrBalanceCeilingExceeded, next, p.MaxBalance)
	}
	if txType == history.Use && p.ForbidNegative && next < 0 {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, current, amount)
	}

	return next, nil
}
