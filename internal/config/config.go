package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// SessionConfig controls how login sessions are signed and how long they live.
type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL" default:"24h"`
}

// LedgerConfig holds deposit order policy.
type LedgerConfig struct {
	// MinDepositAmount is the smallest accepted deposit, in VND.
	MinDepositAmount int64 `env:"DEPOSIT_MIN_AMOUNT" default:"10000"`
	// MaxDepositAmount is the largest accepted deposit, in VND.
	MaxDepositAmount int64 `env:"DEPOSIT_MAX_AMOUNT" default:"1000000000"`
	// PaymentWindow is shown to the depositor as the transfer deadline.
	// Orders are not failed when it elapses.
	PaymentWindow time.Duration `env:"DEPOSIT_PAYMENT_WINDOW" default:"20m"`
}

// AdminConfig describes the administrator account created at startup.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" default:"admin"`
	Password string `env:"ADMIN_PASSWORD"`
}

// HTTPConfig is the listener of the store API.
type HTTPConfig struct {
	Port              uint16        `env:"APP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" default:"15s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" default:"60s"`
}
