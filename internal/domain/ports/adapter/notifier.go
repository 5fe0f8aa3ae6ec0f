package adapter

import (
	"context"
	"time"
)

// ExpiryNotifier delivers renewal reminders to subscribers whose paid period
// is about to lapse. Actual delivery (email, SMS) lives outside this module;
// the default implementation only logs.
type ExpiryNotifier interface {
	NotifyExpiring(ctx context.Context, subscriberID string, expiresAt time.Time, daysRemaining int) error
}
