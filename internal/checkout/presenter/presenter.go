// Package presenter renders a gateway outcome for the member: a receipt
// when the payment went through, a failure reason otherwise. It does no
// I/O and accepts partial or empty outcomes.
package presenter

import (
	"net/url"

	"github.com/leekchan/accounting"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/order"
)

const (
	NotAvailable = "N/A"

	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusPending   = "pending"

	timestampLayout = "02/01/2006 15:04:05"
)

var currencySymbols = map[string]string{
	"012": "DA",
	"978": "EUR",
	"840": "USD",
}

type View struct {
	Status  string  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
	Receipt Receipt `json:"receipt"`
}

type Receipt struct {
	TransactionID     string `json:"transactionId"`
	OrderNumber       string `json:"orderNumber"`
	ApprovalCode      string `json:"approvalCode"`
	PaymentMethod     string `json:"paymentMethod"`
	Timestamp         string `json:"timestamp"`
	StatusDescription string `json:"statusDescription"`
	Amount            string `json:"amount"`
	FormattedAmount   string `json:"formattedAmount"`
}

func Present(o *entity.TransactionOutcome) View {
	if o == nil {
		o = &entity.TransactionOutcome{}
	}

	v := View{Receipt: receipt(o)}
	switch {
	case o.Succeeded():
		v.Status = StatusSucceeded
	case o.Pending():
		v.Status = StatusPending
		v.Reason = ReasonPending
	default:
		v.Status = StatusFailed
		v.Reason = FailureReason(o.ErrorCode)
	}
	return v
}

// PresentUnconfirmed renders an outcome that no confirmation lookup
// backs, such as the parameters of a fail return URL. It is always a
// failure whatever code the outcome carries.
func PresentUnconfirmed(o *entity.TransactionOutcome) View {
	if o == nil {
		o = &entity.TransactionOutcome{}
	}
	return View{
		Status:  StatusFailed,
		Reason:  FailureReason(o.ErrorCode),
		Receipt: receipt(o),
	}
}

// FromReturnQuery rebuilds a partial outcome from the parameters the
// gateway appends to the return URL. Amount and status parameters are
// ignored; only a confirmation lookup establishes them.
func FromReturnQuery(q url.Values) *entity.TransactionOutcome {
	mdOrder := q.Get("orderId")
	if mdOrder == "" {
		mdOrder = q.Get("mdOrder")
	}
	return &entity.TransactionOutcome{
		MdOrder:      mdOrder,
		OrderNumber:  q.Get("orderNumber"),
		ErrorCode:    q.Get("errorCode"),
		ErrorMessage: q.Get("errorMessage"),
	}
}

func receipt(o *entity.TransactionOutcome) Receipt {
	r := Receipt{
		TransactionID:     orNA(o.MdOrder),
		OrderNumber:       orNA(o.OrderNumber),
		ApprovalCode:      orNA(o.ApprovalCode),
		PaymentMethod:     orNA(firstNonEmpty(o.PaymentSystem, o.Pan)),
		Timestamp:         NotAvailable,
		StatusDescription: orNA(firstNonEmpty(o.RespDescription, o.ActionCodeDescription, o.ErrorMessage)),
		Amount:            NotAvailable,
		FormattedAmount:   NotAvailable,
	}
	if o.Date != nil {
		r.Timestamp = o.Date.Format(timestampLayout)
	}
	if o.Amount != nil {
		r.Amount = order.ToDisplay(*o.Amount)
		r.FormattedAmount = formatMoney(*o.Amount, o.Currency)
	}
	return r
}

func formatMoney(minor int64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currencySymbols["012"]
		if currency != "" {
			symbol = currency
		}
	}
	ac := accounting.Accounting{
		Symbol:    symbol,
		Precision: 2,
		Thousand:  " ",
		Decimal:   ",",
		Format:    "%v %s",
	}
	return ac.FormatMoney(float64(minor) / 100)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
