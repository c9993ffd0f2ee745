package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/pointledger/internal/repos/history"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInvalidType is returned when the row violates the type check constraint.
var ErrInvalidType = errors.New("invalid history type")

func (r *historyRepo) Insert(ctx context.Context, userID, amount int64, txType history.TxType, at time.Time) (history.Entry, error) {
	e := history.Entry{UserID: userID, Amount: amount, Type: txType}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO point_histories (user_id, amount, type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, userID, amount, string(txType), at).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			return history.Entry{}, fmt.Errorf("%w: %s", ErrInvalidType, txType)
		}

		return history.Entry{}, fmt.Errorf("insert history: %w", err)
	}

	return e, nil
}
