package history

import (
	"context"
	"fmt"
	"time"
)

type TxType string

const (
	Charge TxType = "CHARGE"
	Use    TxType = "USE"
)

// ParseTxType accepts the canonical upper-case names.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case Charge, Use:
		return TxType(s), nil
	default:
		return "", fmt.Errorf("invalid transaction type %q", s)
	}
}

// Signed returns amount with the sign this type applies to a balance.
func (t TxType) Signed(amount int64) int64 {
	if t == Use {
		return -amount
	}

	return amount
}

// Entry is an immutable record of one completed charge or use.
type Entry struct {
	ID        int64
	UserID    int64
	Amount    int64
	Type      TxType
	Timestamp time.Time
}

// History is an append-only log of entries.
type History interface {
	// SelectAllByUserID returns the user's entries in insertion order.
	SelectAllByUserID(ctx context.Context, userID int64) ([]Entry, error)
	// Insert appends an entry and assigns it a unique, increasing ID.
	Insert(ctx context.Context, userID, amount int64, txType TxType, at time.Time) (Entry, error)
}
