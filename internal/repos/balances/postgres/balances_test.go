package balances

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fastprodman/pointledger/internal/infra/pgtestutil"
)

func TestBalances_SelectByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		seed       func(db *sql.DB, t *testing.T)
		userID     int64
		wantPoints int64
		wantZeroTS bool
	}{
		{
			name: "existing_user",
			seed: func(db *sql.DB, t *testing.T) {
				_, err := db.Exec(`INSERT INTO user_points (id, point) VALUES ($1, $2)`, 1, 1000)
				if err != nil {
					t.Fatalf("seed user: %v", err)
				}
			},
			userID:     1,
			wantPoints: 1000,
		},
		{
			name:       "unknown_user_is_zero",
			seed:       func(_ *sql.DB, _ *testing.T) {},
			userID:     999,
			wantPoints: 0,
			wantZeroTS: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := pgtestutil.NewTestDB(t)
			tt.seed(db, t)

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			got, err := repo.SelectByID(ctx, tt.userID)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if got.UserID != tt.userID {
				t.Fatalf("user id mismatch: want %d, got %d", tt.userID, got.UserID)
			}
			if got.Points != tt.wantPoints {
				t.Fatalf("points mismatch: want %d, got %d", tt.wantPoints, got.Points)
			}
			if got.UpdatedAt.IsZero() != tt.wantZeroTS {
				t.Fatalf("updated_at zero=%v, want %v", got.UpdatedAt.IsZero(), tt.wantZeroTS)
			}
		})
	}
}

func TestBalances_InsertOrUpdate(t *testing.T) {
	t.Parallel()

	db := pgtestutil.NewTestDB(t)
	repo := New(db)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	inserted, err := repo.InsertOrUpdate(ctx, 300, 1000)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted.Points != 1000 || inserted.UserID != 300 {
		t.Fatalf("unexpected insert result: %+v", inserted)
	}

	updated, err := repo.InsertOrUpdate(ctx, 300, 6200)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Points != 6200 {
		t.Fatalf("points mismatch after update: want 6200, got %d", updated.Points)
	}
	if updated.UpdatedAt.Before(inserted.UpdatedAt) {
		t.Fatalf("updated_at went backwards: %v < %v", updated.UpdatedAt, inserted.UpdatedAt)
	}

	got, err := repo.SelectByID(ctx, 300)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.Points != 6200 {
		t.Fatalf("stored points mismatch: want 6200, got %d", got.Points)
	}

	var rows int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_points WHERE id = $1`, 300).Scan(&rows)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one row per user, got %d", rows)
	}
}
