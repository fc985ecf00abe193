package handshake

import "context"

// Repository persists attempt log rows. The log is append-only: Save
// always adds a row and GetLatest reads the newest one.
type Repository interface {
	Save(ctx context.Context, entry *Attempt) error

	// GetLatest returns entity.ErrNotFound when nothing was recorded for
	// the order number.
	GetLatest(ctx context.Context, orderNumber string) (*Attempt, error)
}
