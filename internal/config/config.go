package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN" default:""`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// LedgerConfig tunes the point ledger service.
type LedgerConfig struct {
	// LockTimeout bounds how long a charge/use waits for the user's lock.
	// Zero waits until the request context is done.
	LockTimeout     time.Duration `env:"LEDGER_LOCK_TIMEOUT" default:"0s"`
	ConsistentReads bool          `env:"LEDGER_CONSISTENT_READS" default:"false"`
	Policy          PolicyConfig
}

// PolicyConfig switches the optional amount/balance checks. All off by default.
type PolicyConfig struct {
	RequirePositive bool  `env:"POLICY_REQUIRE_POSITIVE" default:"false"`
	MaxBalance      int64 `env:"POLICY_MAX_BALANCE" default:"0"`
	ForbidNegative  bool  `env:"POLICY_FORBID_NEGATIVE" default:"false"`
}
