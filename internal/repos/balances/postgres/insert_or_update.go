package balances

import (
	"context"
	"fmt"

	"github.com/fastprodman/pointledger/internal/repos/balances"
)

func (r *balancesRepo) InsertOrUpdate(ctx context.Context, userID int64, points int64) (balances.UserBalance, error) {
	var b balances.UserBalance

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_points (id, point, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET point = EXCLUDED.point,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, point, updated_at
	`, userID, points).Scan(&b.UserID, &b.Points, &b.UpdatedAt)
	if err != nil {
		return balances.UserBalance{}, fmt.Errorf("upsert balance: %w", err)
	}

	return b, nil
}
