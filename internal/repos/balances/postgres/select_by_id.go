package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/balances"
)

// SelectByID maps a missing row to the empty balance rather than an error.
func (r *balancesRepo) SelectByID(ctx context.Context, userID int64) (balances.UserBalance, error) {
	b := balances.UserBalance{UserID: userID}

	err := r.db.QueryRowContext(ctx, `
		SELECT point, updated_at
		FROM user_points
		WHERE id = $1
	`, userID).Scan(&b.Points, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balances.Empty(userID), nil
		}

		return balances.UserBalance{}, fmt.Errorf("select balance: %w", err)
	}

	return b, nil
}
