package entity

import (
	"encoding/json"
	"time"
)

const (
	// CodeSuccess is the gateway errorCode for an accepted request.
	CodeSuccess = "0"

	OrderStatusRegistered    = 0
	OrderStatusPreAuthorized = 1
	OrderStatusDeposited     = 2
	OrderStatusACSInitiated  = 5
)

// TransactionOutcome is the result of a confirmation lookup. It is never
// mutated once built; Raw keeps the gateway payload byte for byte.
type TransactionOutcome struct {
	OrderNumber           string          `json:"orderNumber,omitempty"`
	MdOrder               string          `json:"mdOrder,omitempty"`
	ErrorCode             string          `json:"errorCode,omitempty"`
	ErrorMessage          string          `json:"errorMessage,omitempty"`
	ApprovalCode          string          `json:"approvalCode,omitempty"`
	PaymentSystem         string          `json:"paymentSystem,omitempty"`
	Pan                   string          `json:"pan,omitempty"`
	Amount                *int64          `json:"amount,omitempty"`
	Currency              string          `json:"currency,omitempty"`
	OrderStatus           *int            `json:"orderStatus,omitempty"`
	ActionCode            *int            `json:"actionCode,omitempty"`
	ActionCodeDescription string          `json:"actionCodeDescription,omitempty"`
	RespCode              string          `json:"respCode,omitempty"`
	RespDescription       string          `json:"respDescription,omitempty"`
	Date                  *time.Time      `json:"date,omitempty"`
	Raw                   json.RawMessage `json:"raw,omitempty"`
}

// Pending reports whether the gateway still considers the order open
// (registered, pre-authorized or waiting on 3-D Secure).
func (o *TransactionOutcome) Pending() bool {
	if o == nil || o.OrderStatus == nil {
		return false
	}
	switch *o.OrderStatus {
	case OrderStatusRegistered, OrderStatusPreAuthorized, OrderStatusACSInitiated:
		return true
	}
	return false
}

// Succeeded reports whether the payment went through. A missing error code
// counts as success only when the gateway issued an approval code.
func (o *TransactionOutcome) Succeeded() bool {
	if o == nil {
		return false
	}
	switch {
	case o.ErrorCode == CodeSuccess:
	case o.ErrorCode == "" && o.ApprovalCode != "":
	default:
		return false
	}
	return o.OrderStatus == nil || *o.OrderStatus == OrderStatusDeposited
}

// IdentifiesTransaction reports whether the payload describes a known
// transaction, as opposed to a bare error envelope.
func (o *TransactionOutcome) IdentifiesTransaction() bool {
	return o != nil && (o.OrderNumber != "" || o.OrderStatus != nil)
}
