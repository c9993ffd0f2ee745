// Package points keeps per-user point balances and their history.
//
// Charge and Use are serialized per user through a lock registry: for one
// user, the read of the current balance, the balance write and the history
// append of one call never interleave with another call's. Calls for
// different users do not contend.
//
// Reads (GetBalance, GetHistory) are not serialized against writes unless
// Options.ConsistentReads is set; by default a read may observe the balance
// of an in-flight call before its history entry is appended.
package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/pointledger/internal/lockreg"
	"github.com/fastprodman/pointledger/internal/metrics"
	"github.com/fastprodman/pointledger/internal/repos/balances"
	"github.com/fastprodman/pointledger/internal/repos/history"
)

type Options struct {
	Policy Policy
	// LockTimeout bounds the wait for a user's lock. Zero waits until ctx
	// is done.
	LockTimeout time.Duration
	// ConsistentReads makes reads take the user's lock.
	ConsistentReads bool

	Logger  *slog.Logger
	Metrics *metrics.Ledger
	// Now stamps history entries. Defaults to time.Now in UTC.
	Now func() time.Time
}

type Service struct {
	locks    *lockreg.Registry[int64]
	balances balances.Balances
	history  history.History

	policy          Policy
	lockTimeout     time.Duration
	consistentReads bool

	log     *slog.Logger
	metrics *metrics.Ledger
	now     func() time.Time
}

// New wires a Service. The registry is owned by the caller and may be
// shared with other components that guard the same users.
func New(locks *lockreg.Registry[int64], b balances.Balances, h history.History, opts Options) *Service {
	s := &Service{
		locks:           locks,
		balances:        b,
		history:         h,
		policy:          opts.Policy,
		lockTimeout:     opts.LockTimeout,
		consistentReads: opts.ConsistentReads,
		log:             opts.Logger,
		metrics:         opts.Metrics,
		now:             opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.log = s.log.With("component", "points")

	return s
}

// GetBalance returns the user's balance; unknown users have zero points.
func (s *Service) GetBalance(ctx context.Context, userID int64) (balances.UserBalance, error) {
	var out balances.UserBalance

	err := s.read(ctx, userID, func() error {
		b, err := s.balances.SelectByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("select balance: %w", err)
		}
		out = b

		return nil
	})
	if err != nil {
		return balances.UserBalance{}, fmt.Errorf("get balance: %w", err)
	}

	return out, nil
}

// GetHistory returns the user's entries in the order they were appended.
func (s *Service) GetHistory(ctx context.Context, userID int64) ([]history.Entry, error) {
	var out []history.Entry

	err := s.read(ctx, userID, func() error {
		entries, err := s.history.SelectAllByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("select history: %w", err)
		}
		out = entries

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	return out, nil
}

// Charge adds amount to the user's balance and records a CHARGE entry.
func (s *Service) Charge(ctx context.Context, userID, amount int64) (balances.UserBalance, error) {
	return s.mutate(ctx, userID, amount, history.Charge)
}

// Use subtracts amount from the user's balance and records a USE entry.
func (s *Service) Use(ctx context.Context, userID, amount int64) (balances.UserBalance, error) {
	return s.mutate(ctx, userID, amount, history.Use)
}

// mutate runs the read-modify-write-append sequence under the user's lock:
//
// 1) Read the current balance.
// 2) Compute and check the new balance (no writes on rejection).
// 3) Persist the new balance.
// 4) Append the history entry; if that fails, restore the old balance.
func (s *Service) mutate(ctx context.Context, userID, amount int64, txType history.TxType) (balances.UserBalance, error) {
	var out balances.UserBalance

	err := s.withUserLock(ctx, userID, func() error {
		// 1) Read
		current, err := s.balances.SelectByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("select balance: %w", err)
		}

		// 2) Compute + check
		next, err := s.policy.apply(txType, current.Points, amount)
		if err != nil {
			return err
		}

		// 3) Persist balance
		written, err := s.balances.InsertOrUpdate(ctx, userID, next)
		if err != nil {
			return fmt.Errorf("write balance: %w", err)
		}

		// 4) Append history
		_, err = s.history.Insert(ctx, userID, amount, txType, s.now())
		if err != nil {
			err = fmt.Errorf("insert history: %w", err)

			_, rbErr := s.balances.InsertOrUpdate(context.WithoutCancel(ctx), userID, current.Points)
			if rbErr != nil {
				return errors.Join(err, fmt.Errorf("restore balance to %d: %w", current.Points, rbErr))
			}

			return err
		}

		out = written

		return nil
	})

	s.observe(userID, amount, txType, out, err)
	if err != nil {
		return balances.UserBalance{}, fmt.Errorf("%s user %d: %w", verb(txType), userID, err)
	}

	return out, nil
}

func (s *Service) read(ctx context.Context, userID int64, fn func() error) error {
	if !s.consistentReads {
		return fn()
	}

	return s.withUserLock(ctx, userID, fn)
}

// withUserLock runs fn while holding userID's lock. The lock timeout only
// bounds acquisition; fn runs with the caller's ctx.
func (s *Service) withUserLock(ctx context.Context, userID int64, fn func() error) error {
	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}

	start := time.Now()
	err := s.locks.Acquire(lockCtx, userID)
	s.metrics.ObserveLockWait(time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockAcquisition, err)
	}
	defer s.locks.Release(userID)

	return fn()
}

func (s *Service) observe(userID, amount int64, txType history.TxType, out balances.UserBalance, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveMutation(string(txType), metrics.OutcomeOK)
		s.log.Debug("points updated",
			"user_id", userID, "type", txType, "amount", amount, "points", out.Points)
	case IsRejected(err):
		s.metrics.ObserveMutation(string(txType), metrics.OutcomeRejected)
		s.log.Warn("points update rejected",
			"user_id", userID, "type", txType, "amount", amount, "error", err)
	case errors.Is(err, ErrLockAcquisition):
		s.metrics.ObserveMutation(string(txType), metrics.OutcomeLock)
		s.log.Warn("points lock not acquired",
			"user_id", userID, "type", txType, "error", err)
	default:
		s.metrics.ObserveMutation(string(txType), metrics.OutcomeError)
		s.log.Error("points update failed",
			"user_id", userID, "type", txType, "amount", amount, "error", err)
	}
}

func verb(t history.TxType) string {
	if t == history.Use {
		return "use"
	}

	return "charge"
}
