package entity

import "time"

// Order is a single checkout attempt as sent to the gateway.
// Amount is expressed in minor currency units (centimes).
type Order struct {
	OrderNumber string
	Amount      int64
	Currency    string
	Language    string
	ReturnURL   string
	FailURL     string
	Description string
	ExtraFields map[string]string
	CreatedAt   time.Time
}

// GatewaySession is what a successful registration hands back: the
// gateway reference used for later lookups and the hosted form URL.
type GatewaySession struct {
	MdOrder string
	FormURL string
}

type InitiateParams struct {
	Amount      any
	Currency    string
	Language    string
	PlanID      string
	UserID      string
	Description string

	// IdempotencyKey replays are scoped to MemberID, the authenticated
	// session subject. Without a session all callers share one scope.
	IdempotencyKey string
	MemberID       string
}

type InitiateResult struct {
	OrderNumber string `json:"orderNumber"`
	MdOrder     string `json:"orderId"`
	FormURL     string `json:"formUrl"`
}
