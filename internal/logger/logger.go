// Package logger configures the process-wide slog JSON logger and carries a
// per-request trace id in context.Context so every line written while
// serving a request can be correlated with its X-Request-ID.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// TraceKey is the log attribute holding the request trace id.
const TraceKey = "trace_id"

type traceCtxKey struct{}

// Init installs a JSON logger on stdout as the slog default.
func Init(service string, level slog.Level) *slog.Logger {
	return InitWriter(os.Stdout, service, level)
}

// InitWriter is Init with an explicit destination. Every line carries the
// service attribute.
func InitWriter(w io.Writer, service string, level slog.Level) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", service))
	slog.SetDefault(l)
	return l
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a
// slog.Level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithTraceID returns ctx carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceCtxKey{}, id)
}

// TraceID returns the id stored by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceCtxKey{}).(string)
	return id
}

// NewTraceID mints a random id for requests that arrive without one.
func NewTraceID() string {
	return uuid.NewString()
}

// LogWithTrace returns the trace attribute as variadic slog args, or nil
// when ctx has no trace id.
//
//	slog.Info("msg", logger.LogWithTrace(ctx)...)
func LogWithTrace(ctx context.Context) []any {
	if id := TraceID(ctx); id != "" {
		return []any{slog.String(TraceKey, id)}
	}
	return nil
}

// FromContext returns the default logger bound to ctx's trace id.
func FromContext(ctx context.Context) *slog.Logger {
	return slog.Default().With(LogWithTrace(ctx)...)
}
