package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// Register opens the order on the gateway. It is at-most-once: on any
// error the caller must build a new Order before trying again.
func (c *Client) Register(ctx context.Context, order *entity.Order) (_ *entity.GatewaySession, err error) {
	if order == nil {
		return nil, fmt.Errorf("%w: order is required", entity.ErrValidation)
	}

	ctx, span := c.startSpan(ctx, "gateway.register",
		attribute.String("order.number", order.OrderNumber),
		attribute.Int64("order.amount", order.Amount),
	)
	defer func() { endSpan(span, err) }()

	params, err := registerParams(order)
	if err != nil {
		return nil, err
	}

	raw, err := c.call(ctx, registerPath, params)
	if err != nil {
		slog.ErrorContext(ctx, "gateway register failed", "order_number", order.OrderNumber, "error", err)
		return nil, err
	}

	session, err := decodeRegister(raw)
	if err != nil {
		slog.WarnContext(ctx, "gateway register rejected", "order_number", order.OrderNumber, "status", raw.status, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "gateway order registered", "order_number", order.OrderNumber, "md_order", session.MdOrder)
	return session, nil
}

func registerParams(order *entity.Order) (url.Values, error) {
	params := url.Values{}
	params.Set("orderNumber", order.OrderNumber)
	params.Set("amount", strconv.FormatInt(order.Amount, 10))
	params.Set("currency", order.Currency)
	params.Set("language", order.Language)
	params.Set("returnUrl", order.ReturnURL)
	if order.FailURL != "" {
		params.Set("failUrl", order.FailURL)
	}
	if order.Description != "" {
		params.Set("description", order.Description)
	}
	if len(order.ExtraFields) > 0 {
		blob, err := json.Marshal(order.ExtraFields)
		if err != nil {
			return nil, fmt.Errorf("%w: encode jsonParams: %w", entity.ErrValidation, err)
		}
		params.Set("jsonParams", string(blob))
	}
	return params, nil
}

// decodeRegister maps a gateway reply onto exactly one of: session,
// *entity.GatewayError, or ErrTransport.
func decodeRegister(raw rawResponse) (*entity.GatewaySession, error) {
	var res registerResponse
	if err := json.Unmarshal(raw.body, &res); err != nil {
		if !raw.ok() {
			return nil, fmt.Errorf("%w: register.do returned status %d", entity.ErrTransport, raw.status)
		}
		return nil, fmt.Errorf("%w: malformed register.do response: %w", entity.ErrTransport, err)
	}

	if code := string(res.ErrorCode); code != "" && code != entity.CodeSuccess {
		return nil, &entity.GatewayError{Code: code, Message: res.ErrorMessage}
	}
	if !raw.ok() {
		return nil, fmt.Errorf("%w: register.do returned status %d", entity.ErrTransport, raw.status)
	}
	if res.FormURL == "" {
		return nil, fmt.Errorf("%w: register.do response carries no formUrl", entity.ErrTransport)
	}

	mdOrder := res.OrderID
	if mdOrder == "" {
		mdOrder = mdOrderFromFormURL(res.FormURL)
	}

	return &entity.GatewaySession{MdOrder: mdOrder, FormURL: res.FormURL}, nil
}

// mdOrderFromFormURL recovers the order reference the gateway embeds in
// its hosted form link when the reply omits orderId.
func mdOrderFromFormURL(formURL string) string {
	u, err := url.Parse(formURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("mdOrder")
}
