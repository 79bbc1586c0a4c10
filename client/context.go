package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/geminer/response"
)

type ctxKey int

const (
	base ctxKey = iota + 1
)

// Values are shared by every step of a single request.
type Values struct {
	RequestID string
	Start     time.Time
	Tracer    trace.Tracer
	Status    response.Status
}

// GetValues retrieves the Values from the given context.
func GetValues(ctx context.Context) *Values {
	v, ok := ctx.Value(base).(*Values)
	if !ok {
		return &Values{
			RequestID: uuid.Nil.String(),
			Tracer:    noop.NewTracerProvider().Tracer(""),
			Start:     time.Now(),
		}
	}

	return v
}

// GetRequestID retrieves the request ID from the given context.
// An empty uuid is returned when not set.
func GetRequestID(ctx context.Context) string {
	v, ok := ctx.Value(base).(*Values)
	if !ok {
		return uuid.Nil.String()
	}

	return v.RequestID
}

// AddSpan starts a child span with the request's tracer.
func AddSpan(ctx context.Context, spanName string, keyValues ...attribute.KeyValue) (context.Context, trace.Span) {
	v, ok := ctx.Value(base).(*Values)
	if !ok || v.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	ctx, span := v.Tracer.Start(ctx, spanName)
	span.SetAttributes(keyValues...)

	return ctx, span
}

func setStatus(ctx context.Context, status response.Status) {
	v, ok := ctx.Value(base).(*Values)
	if !ok {
		return
	}

	v.Status = status
}

func setValues(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, base, v)
}
