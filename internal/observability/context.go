package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// DetachTraceContext returns a context.Background() carrying the span
// context from ctx. Turn goroutines use this so a completion outlives the
// UI context that triggered it while its span stays linked to the session
// trace.
func DetachTraceContext(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return context.Background()
	}
	return trace.ContextWithRemoteSpanContext(context.Background(), sc)
}
