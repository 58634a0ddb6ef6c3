package ctxutil

import "context"

type traceKey struct{}

// Trace identifies one inbound request across log lines and spans.
type Trace struct {
	TraceID   string
	RequestID string
}

func WithTrace(ctx context.Context, t Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// TraceFrom reports false when ctx did not pass through the trace middleware.
func TraceFrom(ctx context.Context) (Trace, bool) {
	t, ok := ctx.Value(traceKey{}).(Trace)
	return t, ok
}
