package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

const serviceName = "keystore"

// New returns a JSON logger writing to w. Every record carries the service
// name, and durations are rendered in milliseconds.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: durationsAsMillis,
	})

	return slog.New(h).With("service", serviceName)
}

// SetupJSON sets slog's default logger to use JSON output at the given level.
func SetupJSON(level slog.Level) {
	slog.SetDefault(New(os.Stdout, level))
}

func durationsAsMillis(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindDuration {
		return slog.Float64(a.Key, float64(a.Value.Duration())/float64(time.Millisecond))
	}

	return a
}
