package handshake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// Recorder validates and records handshake transitions.
// repo may be nil; transitions are then only logged.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Created(ctx context.Context, order *entity.Order) error {
	entry := NewEntry(ctx, order.OrderNumber, StateCreated)
	entry.Amount = order.Amount
	return r.transition(ctx, entry)
}

func (r *Recorder) Registered(ctx context.Context, orderNumber string, session *entity.GatewaySession) error {
	entry := NewEntry(ctx, orderNumber, StateRegistered)
	entry.MdOrder = session.MdOrder
	entry.FormURL = session.FormURL
	return r.transition(ctx, entry)
}

func (r *Recorder) RegistrationFailed(ctx context.Context, orderNumber string, cause error) error {
	entry := NewEntry(ctx, orderNumber, StateFailed)
	entry.Detail = cause.Error()
	return r.transition(ctx, entry)
}

// Settled records the terminal state of a confirmed order. Confirmation
// may be repeated, so an attempt that is already terminal is left as is.
// An order this log never saw is only logged.
func (r *Recorder) Settled(ctx context.Context, outcome *entity.TransactionOutcome) error {
	if outcome.OrderNumber == "" || outcome.Pending() {
		return nil
	}

	state := StateFailed
	if outcome.Succeeded() {
		state = StateSucceeded
	}
	entry := NewEntry(ctx, outcome.OrderNumber, state)
	entry.MdOrder = outcome.MdOrder
	if state == StateFailed {
		entry.Detail = "errorCode=" + outcome.ErrorCode
	}
	if r.repo == nil {
		return r.write(ctx, entry)
	}

	latest, err := r.previous(ctx, outcome.OrderNumber)
	if err != nil {
		return err
	}
	switch {
	case latest == nil:
		slog.WarnContext(ctx, "confirmed order has no recorded attempt",
			"order_number", outcome.OrderNumber,
			"state", state,
			"md_order", outcome.MdOrder,
		)
		return nil
	case latest.State.Terminal():
		return nil
	}
	return r.advance(ctx, latest, entry)
}

func (r *Recorder) Latest(ctx context.Context, orderNumber string) (*Attempt, error) {
	if r.repo == nil {
		return nil, fmt.Errorf("%w: attempt log disabled", entity.ErrNotFound)
	}
	return r.repo.GetLatest(ctx, orderNumber)
}

func (r *Recorder) transition(ctx context.Context, entry *Attempt) error {
	if r.repo == nil {
		return r.write(ctx, entry)
	}
	latest, err := r.previous(ctx, entry.OrderNumber)
	if err != nil {
		return err
	}
	return r.advance(ctx, latest, entry)
}

// previous returns the latest row for orderNumber, or nil if there is none.
func (r *Recorder) previous(ctx context.Context, orderNumber string) (*Attempt, error) {
	latest, err := r.repo.GetLatest(ctx, orderNumber)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	return latest, err
}

// advance checks latest -> entry and writes entry. Rows are snapshots, so
// fields set by earlier transitions are carried into the new one.
func (r *Recorder) advance(ctx context.Context, latest, entry *Attempt) error {
	var from State
	if latest != nil {
		from = latest.State
		if entry.Amount == 0 {
			entry.Amount = latest.Amount
		}
		if entry.MdOrder == "" {
			entry.MdOrder = latest.MdOrder
		}
		if entry.FormURL == "" {
			entry.FormURL = latest.FormURL
		}
	}
	if !CanTransition(from, entry.State) {
		return fmt.Errorf("%w: %s -> %s for order %s", entity.ErrInvalidTransition, from, entry.State, entry.OrderNumber)
	}
	return r.write(ctx, entry)
}

func (r *Recorder) write(ctx context.Context, entry *Attempt) error {
	slog.InfoContext(ctx, "checkout attempt transition",
		"order_number", entry.OrderNumber,
		"state", entry.State,
		"md_order", entry.MdOrder,
	)
	if r.repo == nil {
		return nil
	}
	if err := r.repo.Save(ctx, entry); err != nil {
		return fmt.Errorf("record %s for order %s: %w", entry.State, entry.OrderNumber, err)
	}
	return nil
}
