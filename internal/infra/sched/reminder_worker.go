package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"realty-subscription/internal/domain/ports/adapter"
	"realty-subscription/internal/domain/ports/repository"
	"realty-subscription/internal/infra/metrics"
)

// ReminderWorker periodically scans for subscriptions expiring soon and hands
// them to the notifier. It is read-only: expiry itself stays a computed state,
// so the worker is an optional convenience, not a correctness requirement.
type ReminderWorker struct {
	interval time.Duration
	window   time.Duration
	subs     repository.SubscriptionRepository
	notifier adapter.ExpiryNotifier
	log      *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, windowDays int, subs repository.SubscriptionRepository, notifier adapter.ExpiryNotifier, logger *zerolog.Logger) *ReminderWorker {
	l := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		window:   time.Duration(windowDays) * 24 * time.Hour,
		subs:     subs,
		notifier: notifier,
		log:      &l,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting reminder worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			if err := w.scan(ctx); err != nil {
				w.log.Error().Err(err).Msg("reminder scan failed")
			}
		}
	}
}

func (w *ReminderWorker) scan(ctx context.Context) error {
	now := time.Now()
	expiring, err := w.subs.ListExpiringWithin(ctx, now, w.window)
	if err != nil {
		return err
	}
	metrics.SetSubscriptionsExpiringSoon(len(expiring))

	sent := 0
	for _, s := range expiring {
		if err := w.notifier.NotifyExpiring(ctx, s.SubscriberID, s.CurrentPeriodEnd, s.DaysRemaining(now)); err != nil {
			w.log.Warn().Err(err).Str("subscriber_id", s.SubscriberID).Msg("reminder delivery failed")
			continue
		}
		sent++
	}
	if sent > 0 {
		metrics.IncExpiryReminders(sent)
		w.log.Info().Int("count", sent).Msg("renewal reminders sent")
	}
	return nil
}
