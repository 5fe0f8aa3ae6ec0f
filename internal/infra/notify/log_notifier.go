package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"realty-subscription/internal/domain/ports/adapter"
)

var _ adapter.ExpiryNotifier = (*LogNotifier)(nil)

// LogNotifier records reminders in the log stream. Real delivery (email/SMS)
// belongs to the marketplace's messaging system; this keeps the port exercised
// without owning a delivery channel.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	l := logger.With().Str("component", "LogNotifier").Logger()
	return &LogNotifier{log: &l}
}

func (n *LogNotifier) NotifyExpiring(ctx context.Context, subscriberID string, expiresAt time.Time, daysRemaining int) error {
	n.log.Info().
		Str("subscriber_id", subscriberID).
		Time("expires_at", expiresAt).
		Int("days_remaining", daysRemaining).
		Msg("subscription expiring soon")
	return nil
}
