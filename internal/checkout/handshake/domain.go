// Package handshake tracks a checkout attempt through the gateway
// handshake:
//
//	CREATED -> REGISTERED -> SUCCEEDED | FAILED
//	CREATED -> FAILED
//
// Terminal states have no way out; retrying means a new order number and
// therefore a new attempt. Every transition is appended to an attempt log
// so an attempt can be followed from the order number, and correlated with
// its distributed trace through the trace_id column.
package handshake

import "time"

type State string

const (
	StateCreated    State = "CREATED"
	StateRegistered State = "REGISTERED"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

var transitions = map[State][]State{
	"":              {StateCreated},
	StateCreated:    {StateRegistered, StateFailed},
	StateRegistered: {StateSucceeded, StateFailed},
}

// CanTransition reports whether from -> to is a legal move. The empty
// state stands for an attempt that has not been recorded yet.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Attempt is one row of the attempt log: a point-in-time snapshot of a
// checkout attempt.
type Attempt struct {
	OrderNumber string
	State       State

	// MdOrder and FormURL are set from REGISTERED onwards.
	MdOrder string
	FormURL string

	// Amount in minor units, written on CREATED.
	Amount int64

	// Detail holds the gateway error or the outcome code for FAILED rows.
	Detail string

	TraceID   string
	SpanID    string
	UpdatedAt time.Time
}
