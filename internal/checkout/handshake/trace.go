package handshake

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the ids of the span active in ctx, or empty
// strings when there is none.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an attempt log row stamped with the current trace ids.
func NewEntry(ctx context.Context, orderNumber string, state State) *Attempt {
	ti := ExtractTraceInfo(ctx)
	return &Attempt{
		OrderNumber: orderNumber,
		State:       state,
		TraceID:     ti.TraceID,
		SpanID:      ti.SpanID,
		UpdatedAt:   time.Now().UTC(),
	}
}
