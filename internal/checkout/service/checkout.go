// Package service composes the order builder, the gateway client, the
// handshake recorder and the outcome cache into the checkout use cases.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/core/ports"
	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake"
	"github.com/jcmexdev/membership-checkout/internal/checkout/order"
	"github.com/jcmexdev/membership-checkout/internal/pkg/cache"
)

const (
	opInitiate = "initiate"
	opConfirm  = "confirm"
)

var _ ports.CheckoutService = (*Checkout)(nil)

type Checkout struct {
	builder  *order.Builder
	gateway  ports.Gateway
	recorder *handshake.Recorder
	cache    cache.Cache
	cacheTTL time.Duration
}

// Options holds the optional collaborators. A nil Cache disables both the
// outcome cache and idempotent replays of Initiate.
type Options struct {
	Recorder *handshake.Recorder
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewCheckout(builder *order.Builder, gateway ports.Gateway, opts Options) *Checkout {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = handshake.NewRecorder(nil)
	}
	return &Checkout{
		builder:  builder,
		gateway:  gateway,
		recorder: recorder,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

// Initiate builds a new order and registers it with the gateway. When the
// caller supplies an idempotency key, a previous successful registration
// under that key and member is returned without contacting the gateway
// again. Reusing the key for a different payment is an
// ErrIdempotencyConflict.
func (c *Checkout) Initiate(ctx context.Context, params entity.InitiateParams) (*entity.InitiateResult, error) {
	o, err := c.builder.Build(order.BuildRequest{
		Amount:      params.Amount,
		Currency:    params.Currency,
		Language:    params.Language,
		PlanID:      params.PlanID,
		UserID:      params.UserID,
		Description: params.Description,
	})
	if err != nil {
		return nil, err
	}

	key := idempotencyKey(params)
	fingerprint := orderFingerprint(o)
	if cached := c.cachedInitiate(ctx, key); cached != nil {
		if cached.Fingerprint != fingerprint {
			return nil, fmt.Errorf("%w: key %q was already used for a different payment",
				entity.ErrIdempotencyConflict, params.IdempotencyKey)
		}
		slog.InfoContext(ctx, "replaying checkout registration",
			"order_number", cached.Result.OrderNumber,
			"idempotency_key", params.IdempotencyKey,
		)
		return cached.Result, nil
	}

	if err := c.recorder.Created(ctx, o); err != nil {
		slog.ErrorContext(ctx, "failed to record checkout attempt", "order_number", o.OrderNumber, "error", err)
	}

	session, err := c.gateway.Register(ctx, o)
	if err != nil {
		if recErr := c.recorder.RegistrationFailed(ctx, o.OrderNumber, err); recErr != nil {
			slog.ErrorContext(ctx, "failed to record registration failure", "order_number", o.OrderNumber, "error", recErr)
		}
		return nil, err
	}

	if err := c.recorder.Registered(ctx, o.OrderNumber, session); err != nil {
		slog.ErrorContext(ctx, "failed to record registration", "order_number", o.OrderNumber, "error", err)
	}

	result := &entity.InitiateResult{
		OrderNumber: o.OrderNumber,
		MdOrder:     session.MdOrder,
		FormURL:     session.FormURL,
	}
	c.store(ctx, opInitiate, key, initiateEntry{Fingerprint: fingerprint, Result: result})
	return result, nil
}

// Confirm looks the order up on the gateway. Settled outcomes are recorded
// and cached; pending ones are returned as is.
func (c *Checkout) Confirm(ctx context.Context, mdOrder, language string) (*entity.TransactionOutcome, error) {
	if mdOrder == "" {
		return nil, fmt.Errorf("%w: mdOrder is required", entity.ErrValidation)
	}

	if cached := c.cachedOutcome(ctx, mdOrder); cached != nil {
		slog.DebugContext(ctx, "confirmation served from cache", "md_order", mdOrder)
		return cached, nil
	}

	outcome, err := c.gateway.Confirm(ctx, mdOrder, language)
	if err != nil {
		return nil, err
	}

	if outcome.Pending() {
		return outcome, nil
	}

	if err := c.recorder.Settled(ctx, outcome); err != nil {
		slog.ErrorContext(ctx, "failed to record settlement",
			"order_number", outcome.OrderNumber,
			"md_order", mdOrder,
			"error", err,
		)
	}
	if outcome.IdentifiesTransaction() || outcome.Succeeded() {
		c.storeOutcome(ctx, mdOrder, outcome)
	}
	return outcome, nil
}

func (c *Checkout) Attempt(ctx context.Context, orderNumber string) (*handshake.Attempt, error) {
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", entity.ErrValidation)
	}
	return c.recorder.Latest(ctx, orderNumber)
}

// initiateEntry is a cached registration together with the order it was
// made for.
type initiateEntry struct {
	Fingerprint string                 `json:"fingerprint"`
	Result      *entity.InitiateResult `json:"result"`
}

// outcomeEntry keeps the gateway payload outside the outcome so a replay
// returns it byte for byte.
type outcomeEntry struct {
	Outcome *entity.TransactionOutcome `json:"outcome"`
	Raw     []byte                     `json:"raw,omitempty"`
}

func idempotencyKey(params entity.InitiateParams) string {
	if params.IdempotencyKey == "" {
		return ""
	}
	scope := params.MemberID
	if scope == "" {
		scope = "anonymous"
	}
	return scope + ":" + params.IdempotencyKey
}

// orderFingerprint covers every caller-controlled field of the order.
func orderFingerprint(o *entity.Order) string {
	return strings.Join([]string{
		strconv.FormatInt(o.Amount, 10),
		o.Currency,
		o.Language,
		o.ExtraFields[order.FieldPlanID],
		o.ExtraFields[order.FieldUserID],
		o.Description,
	}, "|")
}

func (c *Checkout) cachedInitiate(ctx context.Context, key string) *initiateEntry {
	var entry initiateEntry
	if !c.load(ctx, opInitiate, key, &entry) || entry.Result == nil {
		return nil
	}
	return &entry
}

func (c *Checkout) cachedOutcome(ctx context.Context, mdOrder string) *entity.TransactionOutcome {
	var entry outcomeEntry
	if !c.load(ctx, opConfirm, mdOrder, &entry) || entry.Outcome == nil {
		return nil
	}
	entry.Outcome.Raw = entry.Raw
	return entry.Outcome
}

func (c *Checkout) storeOutcome(ctx context.Context, mdOrder string, outcome *entity.TransactionOutcome) {
	stripped := *outcome
	stripped.Raw = nil
	c.store(ctx, opConfirm, mdOrder, outcomeEntry{Outcome: &stripped, Raw: outcome.Raw})
}

// load reports a hit only when the cached value decodes into dst.
// Cache failures are logged and treated as misses.
func (c *Checkout) load(ctx context.Context, operation, key string, dst any) bool {
	if c.cache == nil || key == "" {
		return false
	}
	cacheKey := c.cache.GenerateKey(operation, key)
	val, err := c.cache.Get(ctx, cacheKey)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", cacheKey, "error", err)
		return false
	}
	if val == "" {
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		slog.WarnContext(ctx, "discarding unreadable cache entry", "key", cacheKey, "error", err)
		return false
	}
	return true
}

func (c *Checkout) store(ctx context.Context, operation, key string, v any) {
	if c.cache == nil || key == "" {
		return
	}
	cacheKey := c.cache.GenerateKey(operation, key)
	data, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", cacheKey, "error", err)
		return
	}
	if err := c.cache.Set(ctx, cacheKey, data, c.cacheTTL); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", cacheKey, "error", err)
	}
}
