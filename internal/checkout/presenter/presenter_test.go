package presenter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func TestFailureReason(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "1", want: "Transaction refusée par la banque"},
		{code: "2", want: "Carte expirée"},
		{code: "3", want: "Carte bloquée ou perdue"},
		{code: "4", want: "Fonds insuffisants"},
		{code: "5", want: "Plafond de paiement dépassé"},
		{code: "6", want: "Paiement annulé par le client"},
		{code: "7", want: "Délai de paiement dépassé"},
		{code: "99", want: ReasonUnknown},
		{code: "", want: "Raison non spécifiée."},
		{code: "0", want: ReasonUnspecified},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FailureReason(tt.code), "code %q", tt.code)
	}
}

func TestPresent(t *testing.T) {
	date := time.Date(2026, 10, 18, 14, 30, 5, 0, time.UTC)

	tests := []struct {
		name    string
		outcome *entity.TransactionOutcome
		check   func(t *testing.T, v View)
	}{
		{
			name: "success/receipt",
			outcome: &entity.TransactionOutcome{
				MdOrder:         "md-1",
				OrderNumber:     "MB1",
				ErrorCode:       "0",
				ApprovalCode:    "ABC123",
				PaymentSystem:   "CIB",
				Amount:          int64p(150000),
				Currency:        "012",
				OrderStatus:     intp(2),
				RespDescription: "Votre paiement a été accepté",
				Date:            &date,
			},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusSucceeded, v.Status)
				require.Empty(t, v.Reason)
				require.Equal(t, Receipt{
					TransactionID:     "md-1",
					OrderNumber:       "MB1",
					ApprovalCode:      "ABC123",
					PaymentMethod:     "CIB",
					Timestamp:         "18/10/2026 14:30:05",
					StatusDescription: "Votre paiement a été accepté",
					Amount:            "1500.00",
					FormattedAmount:   v.Receipt.FormattedAmount,
				}, v.Receipt)
				require.Contains(t, v.Receipt.FormattedAmount, "DA")
			},
		},
		{
			name:    "success/minimal payload",
			outcome: &entity.TransactionOutcome{ErrorCode: "0", ApprovalCode: "ABC123", Amount: int64p(150000)},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusSucceeded, v.Status)
				require.Equal(t, "1500.00", v.Receipt.Amount)
				require.Equal(t, "ABC123", v.Receipt.ApprovalCode)
				require.Equal(t, NotAvailable, v.Receipt.Timestamp)
				require.Equal(t, NotAvailable, v.Receipt.PaymentMethod)
			},
		},
		{
			name:    "failure/insufficient funds",
			outcome: &entity.TransactionOutcome{ErrorCode: "4"},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusFailed, v.Status)
				require.Equal(t, "Fonds insuffisants", v.Reason)
			},
		},
		{
			name:    "failure/unknown code",
			outcome: &entity.TransactionOutcome{ErrorCode: "99"},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusFailed, v.Status)
				require.Equal(t, ReasonUnknown, v.Reason)
			},
		},
		{
			name:    "failure/declined by status",
			outcome: &entity.TransactionOutcome{ErrorCode: "0", OrderStatus: intp(6), Pan: "628058**7215"},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusFailed, v.Status)
				require.Equal(t, ReasonUnspecified, v.Reason)
				require.Equal(t, "628058**7215", v.Receipt.PaymentMethod)
			},
		},
		{
			name:    "pending/registered order",
			outcome: &entity.TransactionOutcome{ErrorCode: "0", OrderStatus: intp(0)},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusPending, v.Status)
				require.Equal(t, ReasonPending, v.Reason)
			},
		},
		{
			name:    "empty/no code",
			outcome: &entity.TransactionOutcome{},
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusFailed, v.Status)
				require.Equal(t, "Raison non spécifiée.", v.Reason)
				require.Equal(t, Receipt{
					TransactionID:     NotAvailable,
					OrderNumber:       NotAvailable,
					ApprovalCode:      NotAvailable,
					PaymentMethod:     NotAvailable,
					Timestamp:         NotAvailable,
					StatusDescription: NotAvailable,
					Amount:            NotAvailable,
					FormattedAmount:   NotAvailable,
				}, v.Receipt)
			},
		},
		{
			name:    "empty/nil outcome",
			outcome: nil,
			check: func(t *testing.T, v View) {
				require.Equal(t, StatusFailed, v.Status)
				require.Equal(t, ReasonUnspecified, v.Reason)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, Present(tt.outcome))
		})
	}
}

func TestFromReturnQuery(t *testing.T) {
	q := url.Values{}
	q.Set("orderId", "md-7")
	q.Set("orderNumber", "MB7")
	q.Set("errorCode", "2")
	q.Set("errorMessage", "Card expired")
	q.Set("amount", "1")
	q.Set("OrderStatus", "2")

	o := FromReturnQuery(q)
	require.Equal(t, "md-7", o.MdOrder)
	require.Equal(t, "MB7", o.OrderNumber)
	require.Equal(t, "2", o.ErrorCode)
	require.Nil(t, o.Amount, "amount from the URL is never trusted")
	require.Nil(t, o.OrderStatus)

	v := Present(o)
	require.Equal(t, StatusFailed, v.Status)
	require.Equal(t, "Carte expirée", v.Reason)

	alt := FromReturnQuery(url.Values{"mdOrder": {"md-8"}})
	require.Equal(t, "md-8", alt.MdOrder)
	require.Equal(t, ReasonUnspecified, Present(alt).Reason)
}

func TestPresentUnconfirmed(t *testing.T) {
	forged := FromReturnQuery(url.Values{"orderId": {"md-9"}, "errorCode": {"0"}})
	v := PresentUnconfirmed(forged)
	require.Equal(t, StatusFailed, v.Status, "a return URL alone never proves payment")
	require.Equal(t, ReasonUnspecified, v.Reason)
	require.Equal(t, "md-9", v.Receipt.TransactionID)

	v = PresentUnconfirmed(nil)
	require.Equal(t, StatusFailed, v.Status)
	require.Equal(t, NotAvailable, v.Receipt.TransactionID)
}
