package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nestedConf struct {
	DSN     string        `env:"ENVCONF_TEST_DSN"`
	Timeout time.Duration `env:"ENVCONF_TEST_TIMEOUT" default:"3s"`
}

type testConf struct {
	Port     uint16     `env:"ENVCONF_TEST_PORT"`
	Level    slog.Level `env:"ENVCONF_TEST_LEVEL" default:"INFO"`
	MinSum   int64      `env:"ENVCONF_TEST_MIN" default:"10000"`
	Debug    bool       `env:"ENVCONF_TEST_DEBUG" default:"false"`
	Rate     float64    `env:"ENVCONF_TEST_RATE" default:"0.25"`
	Postgres nestedConf
	skipped  string
}

//nolint:paralleltest
func TestLoad_EnvAndDefaults(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "8080")
	t.Setenv("ENVCONF_TEST_DSN", "postgres://localhost/db")
	t.Setenv("ENVCONF_TEST_LEVEL", "DEBUG")

	cfg := new(testConf)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("port: want 8080, got %d", cfg.Port)
	}
	if cfg.Level != slog.LevelDebug {
		t.Fatalf("level: want DEBUG, got %v", cfg.Level)
	}
	if cfg.MinSum != 10000 {
		t.Fatalf("min: want default 10000, got %d", cfg.MinSum)
	}
	if cfg.Rate != 0.25 {
		t.Fatalf("rate: want default 0.25, got %v", cfg.Rate)
	}
	if cfg.Postgres.DSN != "postgres://localhost/db" {
		t.Fatalf("nested dsn not loaded: %q", cfg.Postgres.DSN)
	}
	if cfg.Postgres.Timeout != 3*time.Second {
		t.Fatalf("nested timeout: want 3s, got %v", cfg.Postgres.Timeout)
	}
	if cfg.skipped != "" {
		t.Fatalf("unexported field must be left alone")
	}
}

//nolint:paralleltest
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("ENVCONF_TEST_DSN", "x")

	err := Load(new(testConf))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

//nolint:paralleltest
func TestLoad_BadValue(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "not-a-port")
	t.Setenv("ENVCONF_TEST_DSN", "x")

	err := Load(new(testConf))
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_RejectsNonPointer(t *testing.T) {
	t.Parallel()

	err := Load(testConf{})
	if err == nil {
		t.Fatalf("expected error for non-pointer destination")
	}

	err = Load(nil)
	if err == nil {
		t.Fatalf("expected error for nil destination")
	}
}
