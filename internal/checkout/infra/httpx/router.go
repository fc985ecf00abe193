package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/membership-checkout/internal/checkout/infra/httpx/middlewares"
)

type RouterOptions struct {
	// JWTSecret enables member authentication when set.
	JWTSecret string
	// Limiter throttles payment initiation; nil disables it.
	Limiter *middlewares.RateLimiter
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Route("/payments", func(r chi.Router) {
		// The gateway redirects the browser here; no session is attached.
		r.Get("/return/success", handler.PaymentSucceeded)
		r.Get("/return/fail", handler.PaymentFailed)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.Authenticate(opts.JWTSecret))

			limited := r.With(middlewares.RateLimit(opts.Limiter))
			limited.Get("/initiate", handler.InitiatePayment)
			limited.Post("/initiate", handler.InitiatePayment)

			r.Get("/confirm", handler.ConfirmPayment)
			r.Post("/confirm", handler.ConfirmPayment)
			r.Get("/attempts/{orderNumber}", handler.GetAttempt)
		})
	})
	return r
}
