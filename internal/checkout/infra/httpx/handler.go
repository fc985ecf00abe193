package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/core/ports"
	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake"
	"github.com/jcmexdev/membership-checkout/internal/checkout/infra/httpx/middlewares"
	"github.com/jcmexdev/membership-checkout/internal/checkout/order"
	"github.com/jcmexdev/membership-checkout/internal/checkout/presenter"
	"github.com/jcmexdev/membership-checkout/internal/pkg/requestmeta"
)

const maxBodyBytes = 64 << 10

// Handler exposes the checkout use cases over HTTP.
type Handler struct {
	checkout ports.CheckoutService
}

func NewHandler(checkout ports.CheckoutService) *Handler {
	return &Handler{checkout: checkout}
}

// InitiatePayment registers a new order with the gateway and returns the
// hosted payment form URL. Parameters come from a JSON body on POST and
// from the query string on GET.
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInitiate(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	var memberID string
	if member, ok := middlewares.MemberFromContext(r.Context()); ok {
		memberID = member.ID
	}
	if req.UserID == "" {
		req.UserID = memberID
	}

	slog.InfoContext(r.Context(), "initiating payment",
		"request_id", requestmeta.RequestID(r.Context()),
		"plan_id", req.PlanID,
		"user_id", req.UserID,
	)

	res, err := h.checkout.Initiate(r.Context(), entity.InitiateParams{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Language:       req.Language,
		PlanID:         req.PlanID,
		UserID:         req.UserID,
		Description:    req.Description,
		IdempotencyKey: requestmeta.IdempotencyKey(r.Context()),
		MemberID:       memberID,
	})
	if err != nil {
		writeErrorFor(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, InitiatePaymentResponse{
		OrderNumber: res.OrderNumber,
		OrderID:     res.MdOrder,
		FormURL:     res.FormURL,
	})
}

// ConfirmPayment returns the gateway's confirmation payload unchanged.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if r.Method == http.MethodPost {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	} else {
		q := r.URL.Query()
		req.MdOrder = q.Get("mdOrder")
		req.OrderID = q.Get("orderId")
		req.Language = q.Get("language")
	}
	mdOrder := req.MdOrder
	if mdOrder == "" {
		mdOrder = req.OrderID
	}

	outcome, err := h.checkout.Confirm(r.Context(), mdOrder, req.Language)
	if err != nil {
		writeErrorFor(w, r, err)
		return
	}

	if len(outcome.Raw) == 0 {
		writeJSON(w, http.StatusOK, outcome)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(outcome.Raw)
}

// PaymentSucceeded serves the success return URL. The view is built from
// a fresh confirmation; parameters in the URL are only used to find the
// order.
func (h *Handler) PaymentSucceeded(w http.ResponseWriter, r *http.Request) {
	fromURL := presenter.FromReturnQuery(r.URL.Query())

	outcome, err := h.checkout.Confirm(r.Context(), fromURL.MdOrder, r.URL.Query().Get("language"))
	if err != nil {
		writeErrorFor(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Present(outcome))
}

// PaymentFailed serves the fail return URL. When the confirmation lookup
// is not possible the page still renders, from the URL parameters alone.
func (h *Handler) PaymentFailed(w http.ResponseWriter, r *http.Request) {
	fromURL := presenter.FromReturnQuery(r.URL.Query())

	outcome, err := h.checkout.Confirm(r.Context(), fromURL.MdOrder, r.URL.Query().Get("language"))
	if err != nil {
		slog.WarnContext(r.Context(), "confirmation unavailable on fail return",
			"md_order", fromURL.MdOrder,
			"error", err,
		)
		writeJSON(w, http.StatusOK, presenter.PresentUnconfirmed(fromURL))
		return
	}
	writeJSON(w, http.StatusOK, presenter.Present(outcome))
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, "order_number_required", "")
		return
	}

	attempt, err := h.checkout.Attempt(r.Context(), orderNumber)
	if err != nil {
		writeErrorFor(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAttemptToResponse(attempt))
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func decodeInitiate(w http.ResponseWriter, r *http.Request) (InitiatePaymentRequest, error) {
	var req InitiatePaymentRequest
	if r.Method == http.MethodPost {
		return req, decodeJSON(w, r, &req)
	}

	q := r.URL.Query()
	if q.Has("amount") {
		req.Amount = q.Get("amount")
	}
	req.Currency = q.Get("currency")
	req.Language = q.Get("language")
	req.PlanID = q.Get("planId")
	req.UserID = q.Get("userId")
	req.Description = q.Get("description")
	return req, nil
}

// decodeJSON treats an empty body as an empty request. Numbers are kept
// as json.Number so amounts are never rounded through float64.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func mapAttemptToResponse(a *handshake.Attempt) AttemptResponse {
	return AttemptResponse{
		OrderNumber: a.OrderNumber,
		State:       string(a.State),
		MdOrder:     a.MdOrder,
		FormURL:     a.FormURL,
		Amount:      order.ToDisplay(a.Amount),
		Detail:      a.Detail,
		TraceID:     a.TraceID,
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// writeErrorFor maps an error to its status code by sentinel.
func writeErrorFor(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, entity.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, entity.ErrGatewayRejection):
		status, code = http.StatusBadRequest, "gateway_rejected"
	case errors.Is(err, entity.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, entity.ErrIdempotencyConflict):
		status, code = http.StatusUnprocessableEntity, "idempotency_conflict"
	case errors.Is(err, entity.ErrConfiguration):
		code = "configuration_error"
	case errors.Is(err, entity.ErrTransport):
		code = "gateway_unavailable"
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
