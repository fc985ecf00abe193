package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// flexString decodes a JSON string or number into its string form. The
// gateway is not consistent about quoting codes such as errorCode.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return err
	}
	*s = flexString(strings.TrimSpace(str))
	return nil
}

// flexInt decodes a JSON number or numeric string. Strings are always
// base 10; the gateway zero-pads some numeric fields.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*n = flexInt(i)
			return nil
		}
		// 1500.0 and 1.5e3 still name an integer.
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) {
			return fmt.Errorf("not an integer: %s", t)
		}
		*n = flexInt(f)
		return nil
	case string:
		digits := strings.TrimSpace(t)
		if digits == "" {
			*n = 0
			return nil
		}
		i, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", digits)
		}
		*n = flexInt(i)
		return nil
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return err
	}
	*n = flexInt(i)
	return nil
}

type registerResponse struct {
	OrderID      string     `json:"orderId"`
	FormURL      string     `json:"formUrl"`
	ErrorCode    flexString `json:"errorCode"`
	ErrorMessage string     `json:"errorMessage"`
}

// confirmResponse covers both the lower and upper camel case field names
// the gateway uses; encoding/json matches keys case-insensitively.
type confirmResponse struct {
	ErrorCode             flexString            `json:"errorCode"`
	ErrorMessage          string                `json:"errorMessage"`
	OrderNumber           string                `json:"orderNumber"`
	OrderStatus           *flexInt              `json:"orderStatus"`
	ApprovalCode          string                `json:"approvalCode"`
	PaymentSystem         string                `json:"paymentSystem"`
	Pan                   string                `json:"pan"`
	Amount                *flexInt              `json:"amount"`
	Currency              flexString            `json:"currency"`
	ActionCode            *flexInt              `json:"actionCode"`
	ActionCodeDescription string                `json:"actionCodeDescription"`
	Date                  *flexInt              `json:"date"`
	Params                map[string]flexString `json:"params"`
}
