package ports

import (
	"context"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake"
)

type CheckoutService interface {
	Initiate(ctx context.Context, params entity.InitiateParams) (*entity.InitiateResult, error)
	Confirm(ctx context.Context, mdOrder, language string) (*entity.TransactionOutcome, error)
	Attempt(ctx context.Context, orderNumber string) (*handshake.Attempt, error)
}
