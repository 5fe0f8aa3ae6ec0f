package repository

import (
	"context"
	"time"

	"realty-subscription/internal/domain/model"
)

// SubscriptionRepository is the port for subscriber subscriptions (one row per
// subscriber). Expiry is a computed state: there is no delete and no stored
// active flag, so reads only ever compare CurrentPeriodEnd against a clock.
type SubscriptionRepository interface {
	// Save upserts by subscriber id.
	Save(ctx context.Context, tx Tx, s *model.SubscriptionRecord) error
	FindBySubscriber(ctx context.Context, tx Tx, subscriberID string) (*model.SubscriptionRecord, error)
	// ListExpired returns subscriptions whose period ended before now, most
	// overdue first.
	ListExpired(ctx context.Context, now time.Time) ([]*model.SubscriptionRecord, error)
	// ListExpiringWithin returns still-active subscriptions whose period ends
	// within the window, soonest first. Used by the reminder worker.
	ListExpiringWithin(ctx context.Context, now time.Time, window time.Duration) ([]*model.SubscriptionRecord, error)
}
