package repository

import (
	"context"

	"realty-subscription/internal/domain/model"
)

// PaymentRepository is the port for the payment-attempt store. Records are
// append-and-update only; nothing ever deletes a payment row.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PaymentRecord) error
	// FindByID locks the row (SELECT ... FOR UPDATE) when called inside a
	// transaction, so racing verify/fail calls serialize on the payment.
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentRecord, error)
	// ListPending returns all pending payments, oldest first.
	ListPending(ctx context.Context) ([]*model.PaymentRecord, error)
	// ListFailed returns all failed payments, most recent first.
	ListFailed(ctx context.Context) ([]*model.PaymentRecord, error)
	ListBySubscriber(ctx context.Context, subscriberID string) ([]*model.PaymentRecord, error)
}
