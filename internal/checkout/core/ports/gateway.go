package ports

import (
	"context"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
)

// Gateway is the card-payment processor. Register is at-most-once per
// call; Confirm is read-only and safe to repeat.
type Gateway interface {
	Register(ctx context.Context, order *entity.Order) (*entity.GatewaySession, error)
	Confirm(ctx context.Context, mdOrder, language string) (*entity.TransactionOutcome, error)
}
