package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/membership-checkout/internal/pkg/requestmeta"
)

// AttachRequestMetadata continues the caller's trace, opens a server span
// and stores the request id and idempotency key in the context. It must
// run after middleware.RequestID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	tracer := otel.Tracer("checkout/http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		requestID := middleware.GetReqID(ctx)
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		ctx = requestmeta.WithRequestID(ctx, requestID)
		ctx = requestmeta.WithIdempotencyKey(ctx, r.Header.Get(requestmeta.HeaderXIdempotencyKey))

		if requestID != "" {
			w.Header().Set(requestmeta.HeaderXRequestID, requestID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
