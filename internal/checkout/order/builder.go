// Package order turns a checkout request into a gateway-ready Order:
// amount normalization, defaults and a fresh order number. It performs no I/O.
package order

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// Keys of the merchant metadata forwarded to the gateway as jsonParams.
const (
	FieldTerminalID = "force_terminal_id"
	FieldUDF1       = "udf1"
	FieldPlanID     = "plan_id"
	FieldUserID     = "user_id"
)

var (
	currencyPattern = regexp.MustCompile(`^[0-9]{3}$`)
	languagePattern = regexp.MustCompile(`^[a-z]{2}$`)
)

type Defaults struct {
	Currency   string
	Language   string
	ReturnURL  string
	FailURL    string
	TerminalID string
}

type BuildRequest struct {
	Amount      any
	Currency    string
	Language    string
	PlanID      string
	UserID      string
	Description string
}

type Builder struct {
	numbers  *NumberGenerator
	defaults Defaults
	now      func() time.Time
}

func NewBuilder(numbers *NumberGenerator, defaults Defaults) *Builder {
	return &Builder{
		numbers:  numbers,
		defaults: defaults,
		now:      time.Now,
	}
}

// Build validates the request and returns a new Order. Every call yields
// a new order number, so a retry after a failed registration is a new attempt.
func (b *Builder) Build(req BuildRequest) (*entity.Order, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	currency := firstNonEmpty(req.Currency, b.defaults.Currency)
	if !currencyPattern.MatchString(currency) {
		return nil, fmt.Errorf("%w: currency %q must be a numeric ISO 4217 code", entity.ErrValidation, currency)
	}
	language := firstNonEmpty(req.Language, b.defaults.Language)
	if !languagePattern.MatchString(language) {
		return nil, fmt.Errorf("%w: language %q must be a two-letter code", entity.ErrValidation, language)
	}

	number := b.numbers.Next()

	extra := map[string]string{FieldUDF1: number}
	if b.defaults.TerminalID != "" {
		extra[FieldTerminalID] = b.defaults.TerminalID
	}
	if req.PlanID != "" {
		extra[FieldPlanID] = req.PlanID
	}
	if req.UserID != "" {
		extra[FieldUserID] = req.UserID
	}

	return &entity.Order{
		OrderNumber: number,
		Amount:      ToMinorUnits(amount),
		Currency:    currency,
		Language:    language,
		ReturnURL:   b.defaults.ReturnURL,
		FailURL:     b.defaults.FailURL,
		Description: req.Description,
		ExtraFields: extra,
		CreatedAt:   b.now().UTC(),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
