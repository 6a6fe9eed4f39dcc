package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// InitLogger creates a structured JSON logger with trace correlation.
// Every log line from a traced context includes trace_id and span_id.
// The chat TUI owns the terminal, so callers pass a side-channel writer
// (typically a log file) rather than stderr.
func InitLogger(w io.Writer) *slog.Logger {
	handler := &traceHandler{
		inner: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: levelFromEnv(),
		}),
	}
	return slog.New(handler)
}

// levelFromEnv reads WARRIORCHAT_LOG_LEVEL, defaulting to info.
func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("WARRIORCHAT_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// traceHandler wraps a slog.Handler to inject trace_id and span_id from context.
type traceHandler struct {
	inner slog.Handler
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.inner.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{inner: h.inner.WithGroup(name)}
}
