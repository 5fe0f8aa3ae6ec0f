// File: internal/usecase/expiry_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
)

// Compile-time check
var _ ExpiryUseCase = (*expiryUC)(nil)

// ExpiredSubscription is a lapsed subscription with its overdue age.
type ExpiredSubscription struct {
	*model.SubscriptionRecord
	DaysOverdue int
}

// SubscriptionStatus is the per-subscriber dashboard view. Active is computed
// from the period end at read time, never read from storage.
type SubscriptionStatus struct {
	Active        bool
	ExpiresAt     time.Time
	DaysRemaining int
}

// ExpiryUseCase is the read-only query surface over payments and
// subscriptions. It takes no locks and is safe at any concurrency level.
type ExpiryUseCase interface {
	ListPending(ctx context.Context) ([]*model.PaymentRecord, error)
	ListFailed(ctx context.Context) ([]*model.PaymentRecord, error)
	ListExpired(ctx context.Context, now time.Time) ([]ExpiredSubscription, error)
	Status(ctx context.Context, subscriberID string, now time.Time) (*SubscriptionStatus, error)
}

type expiryUC struct {
	payments repository.PaymentRepository
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryUseCase(payments repository.PaymentRepository, subs repository.SubscriptionRepository, logger *zerolog.Logger) *expiryUC {
	l := logger.With().Str("component", "ExpiryUC").Logger()
	return &expiryUC{payments: payments, subs: subs, log: &l}
}

func (uc *expiryUC) ListPending(ctx context.Context) ([]*model.PaymentRecord, error) {
	return uc.payments.ListPending(ctx)
}

func (uc *expiryUC) ListFailed(ctx context.Context) ([]*model.PaymentRecord, error) {
	return uc.payments.ListFailed(ctx)
}

func (uc *expiryUC) ListExpired(ctx context.Context, now time.Time) ([]ExpiredSubscription, error) {
	subs, err := uc.subs.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}
	out := make([]ExpiredSubscription, 0, len(subs))
	for _, s := range subs {
		out = append(out, ExpiredSubscription{SubscriptionRecord: s, DaysOverdue: s.DaysOverdue(now)})
	}
	return out, nil
}

func (uc *expiryUC) Status(ctx context.Context, subscriberID string, now time.Time) (*SubscriptionStatus, error) {
	s, err := uc.subs.FindBySubscriber(ctx, repository.NoTX, subscriberID)
	if err != nil {
		return nil, err
	}
	days := s.DaysRemaining(now)
	return &SubscriptionStatus{
		Active:        days > 0,
		ExpiresAt:     s.CurrentPeriodEnd,
		DaysRemaining: days,
	}, nil
}
