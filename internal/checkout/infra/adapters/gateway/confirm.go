package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// Confirm fetches the final state of a gateway order. The call has no
// side effects and may be repeated or polled.
func (c *Client) Confirm(ctx context.Context, mdOrder, language string) (_ *entity.TransactionOutcome, err error) {
	if mdOrder == "" {
		return nil, fmt.Errorf("%w: mdOrder is required", entity.ErrValidation)
	}

	ctx, span := c.startSpan(ctx, "gateway.confirm", attribute.String("gateway.md_order", mdOrder))
	defer func() { endSpan(span, err) }()

	params := url.Values{}
	params.Set("mdOrder", mdOrder)
	if language != "" {
		params.Set("language", language)
	}

	raw, err := c.call(ctx, confirmPath, params)
	if err != nil {
		slog.ErrorContext(ctx, "gateway confirm failed", "md_order", mdOrder, "error", err)
		return nil, err
	}

	outcome, err := DecodeOutcome(mdOrder, raw.body, raw.ok())
	if err != nil {
		slog.WarnContext(ctx, "gateway confirm rejected", "md_order", mdOrder, "status", raw.status, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "gateway order confirmed",
		"md_order", mdOrder,
		"order_number", outcome.OrderNumber,
		"error_code", outcome.ErrorCode,
		"succeeded", outcome.Succeeded(),
	)
	return outcome, nil
}

// DecodeOutcome validates a confirmOrder.do payload. A non-zero errorCode
// only becomes a *entity.GatewayError when the payload does not describe a
// transaction; a declined payment is still an outcome.
func DecodeOutcome(mdOrder string, body []byte, statusOK bool) (*entity.TransactionOutcome, error) {
	var res confirmResponse
	if err := json.Unmarshal(body, &res); err != nil {
		if !statusOK {
			return nil, fmt.Errorf("%w: confirmOrder.do returned an error status", entity.ErrTransport)
		}
		return nil, fmt.Errorf("%w: malformed confirmOrder.do response: %w", entity.ErrTransport, err)
	}

	outcome := &entity.TransactionOutcome{
		OrderNumber:           res.OrderNumber,
		MdOrder:               mdOrder,
		ErrorCode:             string(res.ErrorCode),
		ErrorMessage:          res.ErrorMessage,
		ApprovalCode:          res.ApprovalCode,
		PaymentSystem:         res.PaymentSystem,
		Pan:                   res.Pan,
		Currency:              string(res.Currency),
		ActionCodeDescription: res.ActionCodeDescription,
		RespCode:              string(res.Params["respCode"]),
		RespDescription:       string(res.Params["respCode_desc"]),
		Raw:                   json.RawMessage(bytes.Clone(body)),
	}
	if res.Amount != nil {
		v := int64(*res.Amount)
		outcome.Amount = &v
	}
	if res.OrderStatus != nil {
		v := int(*res.OrderStatus)
		outcome.OrderStatus = &v
	}
	if res.ActionCode != nil {
		v := int(*res.ActionCode)
		outcome.ActionCode = &v
	}
	if res.Date != nil && *res.Date > 0 {
		ts := time.UnixMilli(int64(*res.Date)).UTC()
		outcome.Date = &ts
	}

	if outcome.ErrorCode != "" && outcome.ErrorCode != entity.CodeSuccess && !outcome.IdentifiesTransaction() {
		return nil, &entity.GatewayError{Code: outcome.ErrorCode, Message: outcome.ErrorMessage}
	}
	if !statusOK {
		return nil, fmt.Errorf("%w: confirmOrder.do returned an error status", entity.ErrTransport)
	}
	if outcome.ErrorCode == "" && outcome.ApprovalCode == "" && !outcome.IdentifiesTransaction() {
		return nil, fmt.Errorf("%w: confirmOrder.do response describes no transaction", entity.ErrTransport)
	}

	return outcome, nil
}
