package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastprodman/keystore/internal/api"
	"github.com/fastprodman/keystore/internal/infra/logging"
	"github.com/fastprodman/keystore/internal/infra/pgutils"
	"github.com/fastprodman/keystore/internal/services/admin"
	"github.com/fastprodman/keystore/internal/services/banks"
	"github.com/fastprodman/keystore/internal/services/identity"
	"github.com/fastprodman/keystore/internal/services/keys"
	"github.com/fastprodman/keystore/internal/services/ledger"
	"github.com/fastprodman/keystore/pkg/envconf"
	"github.com/fastprodman/keystore/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add("postgres", func(context.Context) error {
		return dbConns.Close()
	})

	// --- Services ---
	identitySrv := identity.New(dbConns, cfg.Session)

	err = identitySrv.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	svc := api.Services{
		Identity: identitySrv,
		Banks:    banks.New(dbConns),
		Ledger:   ledger.New(dbConns, cfg.Ledger),
		Keys:     keys.New(dbConns),
		Admin:    admin.New(dbConns),
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})

	go func() {
		defer close(sweepDone)
		sweepSessions(sweepCtx, identitySrv, cfg.SessionSweepInterval)
	}()

	shutdownqueue.Add("session sweeper", func(c context.Context) error {
		stopSweep()

		select {
		case <-sweepDone:
			return nil
		case <-c.Done():
			return c.Err()
		}
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.HTTP, svc)

	shutdownqueue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "addr", srv.Addr)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

func sweepSessions(ctx context.Context, s *identity.IdentityService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.PurgeExpiredSessions(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("session sweep failed", "error", err)
			}
		}
	}
}
