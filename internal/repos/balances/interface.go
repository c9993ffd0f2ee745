package balances

import (
	"context"
	"time"
)

// UserBalance is the current point total of one user.
type UserBalance struct {
	UserID    int64
	Points    int64
	UpdatedAt time.Time
}

// Empty returns the record reported for a user that has never been written.
func Empty(userID int64) UserBalance {
	return UserBalance{UserID: userID}
}

// Balances stores one UserBalance per user. Both methods are atomic for a
// single record; there is no cross-call transaction support.
type Balances interface {
	// SelectByID returns the stored balance, or Empty(userID) when none exists.
	SelectByID(ctx context.Context, userID int64) (UserBalance, error)
	// InsertOrUpdate writes points for userID and returns the written record.
	InsertOrUpdate(ctx context.Context, userID int64, points int64) (UserBalance, error)
}
