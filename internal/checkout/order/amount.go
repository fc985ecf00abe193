package order

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// minorUnitExponent is the number of decimal places the gateway folds
// into its integer amount field.
const minorUnitExponent = 2

// Bounds checked before any rescaling. A short literal such as 1e2000000000
// would otherwise expand into a multi-gigabyte integer.
const (
	maxAmountLen     = 32
	maxIntegerDigits = 17
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// ParseAmount accepts an amount as a string or a JSON number and returns
// it as an exact decimal in display units.
func ParseAmount(v any) (decimal.Decimal, error) {
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}
	if v == nil {
		return decimal.Zero, fmt.Errorf("%w: amount is required", entity.ErrValidation)
	}

	raw, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount must be numeric", entity.ErrValidation)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", entity.ErrValidation)
	}
	if len(raw) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("%w: amount is too long", entity.ErrValidation)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not numeric", entity.ErrValidation, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", entity.ErrValidation)
	}
	if len(d.Coefficient().String())+int(d.Exponent()) > maxIntegerDigits {
		return decimal.Zero, fmt.Errorf("%w: amount is too large", entity.ErrValidation)
	}

	minor := d.Shift(minorUnitExponent)
	if !minor.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: amount has more than %d decimal places", entity.ErrValidation, minorUnitExponent)
	}
	if minor.GreaterThan(maxMinorUnits) {
		return decimal.Zero, fmt.Errorf("%w: amount is too large", entity.ErrValidation)
	}

	return d, nil
}

// ToMinorUnits converts a validated display amount to gateway units.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(minorUnitExponent).IntPart()
}

// ToDisplay converts gateway units back to a two-decimal display string.
func ToDisplay(minor int64) string {
	return decimal.New(minor, -minorUnitExponent).StringFixed(minorUnitExponent)
}
