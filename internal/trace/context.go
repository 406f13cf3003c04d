package trace

import "context"

type ctxKey struct{}

type spanKey struct{}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer stores t in ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanFromContext returns the id of the innermost span started with Start.
func SpanFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Start opens a span under the one in ctx and returns a context carrying
// the new span as parent.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, SpanFromContext(ctx))
	if span.ID() == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span.ID()), span
}
