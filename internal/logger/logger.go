// Package logger provides structured logging setup for TurnoLink.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/turnolink/turnolink/internal/config"
)

// Async handler sizing. Records beyond the buffer are dropped, not blocked on.
const (
	asyncBufferSize = 4096
	asyncWorkers    = 2
)

// New creates a *slog.Logger from the given Logging config.
// Output is JSON to stdout with a "service" attribute on every record.
// Records logged with a context carry its request and tenant ids.
// The returned Flusher drains the async handler on shutdown and reports its
// drop count; for a synchronous logger it does nothing.
func New(cfg config.Logging) (*slog.Logger, Flusher) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	var flusher Flusher = syncFlusher{}
	if cfg.Async {
		ah := NewAsyncHandler(handler, asyncBufferSize, asyncWorkers)
		handler, flusher = ah, ah
	}

	return slog.New(&contextHandler{inner: handler}).With("service", cfg.Service), flusher
}

// contextHandler copies request-scoped ids from the context onto each record
// before it reaches the (possibly asynchronous) inner handler.
type contextHandler struct {
	inner slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	if id := RequestID(ctx); id != "" {
		rec.AddAttrs(slog.String("request_id", id))
	}
	if tid := TenantID(ctx); tid != "" {
		rec.AddAttrs(slog.String("tenant_id", tid))
	}
	return h.inner.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name)}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
