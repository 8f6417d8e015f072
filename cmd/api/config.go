package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/keystore/internal/config"
)

type apiConfig struct {
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	// SessionSweepInterval is how often expired sessions are purged.
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"10m"`

	HTTP     config.HTTPConfig
	Postgres config.PostgresConfig
	Session  config.SessionConfig
	Ledger   config.LedgerConfig
	Admin    config.AdminConfig
}
