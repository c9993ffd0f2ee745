package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastprodman/pointledger/internal/repos/balances"
)

var _ balances.Balances = (*Repo)(nil)

// Repo keeps balances in a map. State resets on restart.
type Repo struct {
	mu   sync.RWMutex
	rows map[int64]balances.UserBalance
	now  func() time.Time
}

func New() *Repo {
	return &Repo{
		rows: make(map[int64]balances.UserBalance),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repo) SelectByID(_ context.Context, userID int64) (balances.UserBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.rows[userID]
	if !ok {
		return balances.Empty(userID), nil
	}

	return b, nil
}

func (r *Repo) InsertOrUpdate(_ context.Context, userID int64, points int64) (balances.UserBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := balances.UserBalance{
		UserID:    userID,
		Points:    points,
		UpdatedAt: r.now(),
	}
	r.rows[userID] = b

	return b, nil
}
