package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/pointledger/internal/config"
	"github.com/fastprodman/pointledger/internal/services/points"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

type apiConfig struct {
	Port            uint16        `env:"HTTP_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	LogFormat       string        `env:"APP_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
	StoreBackend    string        `env:"STORE_BACKEND" default:"memory"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" default:"*"`
	Postgres        config.PostgresConfig
	Ledger          config.LedgerConfig
}

func (c *apiConfig) pointOptions() points.Options {
	return points.Options{
		Policy: points.Policy{
			RequirePositive: c.Ledger.Policy.RequirePositive,
			MaxBalance:      c.Ledger.Policy.MaxBalance,
			ForbidNegative:  c.Ledger.Policy.ForbidNegative,
		},
		LockTimeout:     c.Ledger.LockTimeout,
		ConsistentReads: c.Ledger.ConsistentReads,
	}
}
