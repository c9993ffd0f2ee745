package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastprodman/pointledger/internal/repos/history"
)

var _ history.History = (*Repo)(nil)

// Repo keeps the history log in memory. IDs start at 1.
type Repo struct {
	mu     sync.RWMutex
	seq    int64
	byUser map[int64][]history.Entry
}

func New() *Repo {
	return &Repo{byUser: make(map[int64][]history.Entry)}
}

func (r *Repo) SelectAllByUserID(_ context.Context, userID int64) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]history.Entry{}, r.byUser[userID]...), nil
}

func (r *Repo) Insert(_ context.Context, userID, amount int64, txType history.TxType, at time.Time) (history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	e := history.Entry{
		ID:        r.seq,
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Timestamp: at,
	}
	r.byUser[userID] = append(r.byUser[userID], e)

	return e, nil
}
