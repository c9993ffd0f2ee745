package history

import (
	"database/sql"

	"github.com/fastprodman/pointledger/internal/repos/history"
)

var _ history.History = (*historyRepo)(nil)

type historyRepo struct{ db *sql.DB }

func New(db *sql.DB) *historyRepo {
	return &historyRepo{db: db}
}
