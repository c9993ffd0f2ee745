package history

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/history"
)

func (r *historyRepo) SelectAllByUserID(ctx context.Context, userID int64) ([]history.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, type, created_at
		FROM point_histories
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	out := []history.Entry{}
	for rows.Next() {
		var (
			e   history.Entry
			typ string
		)

		err = rows.Scan(&e.ID, &e.UserID, &e.Amount, &typ, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		e.Type, err = history.ParseTxType(typ)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return out, nil
}
