package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/fastprodman/keystore/internal/config"
)

// NewServer builds the store API server. Listener errors go through slog.
func NewServer(cfg config.HTTPConfig, svc Services) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(int(cfg.Port))),
		Handler:           NewRouter(svc),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}
}
