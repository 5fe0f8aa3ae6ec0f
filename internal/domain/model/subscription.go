package model

import "time"

// SubscriptionRecord is a subscriber's one-and-only subscription row, owned by
// the renewal engine. There is no stored "active" flag: activity is always
// derived from CurrentPeriodEnd at read time so the two can never drift.
type SubscriptionRecord struct {
	SubscriberID      string // 1:1 with the subscriber
	Plan              Plan
	CurrentPeriodEnd  time.Time
	LastPaymentID     *string // most recent succeeded PaymentRecord
	LastTransactionID *string // renewal idempotency key
	PaymentMethod     string
	Notes             *string // server-side annotations, e.g. corrected amounts
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active reports whether the paid period covers the given instant.
func (s *SubscriptionRecord) Active(now time.Time) bool {
	return s.CurrentPeriodEnd.After(now)
}

// DaysRemaining is the whole days of paid time left, rounded up, never negative.
func (s *SubscriptionRecord) DaysRemaining(now time.Time) int {
	left := s.CurrentPeriodEnd.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// DaysOverdue is the whole days elapsed since expiry, rounded down, zero while active.
func (s *SubscriptionRecord) DaysOverdue(now time.Time) int {
	over := now.Sub(s.CurrentPeriodEnd)
	if over <= 0 {
		return 0
	}
	return int(over / (24 * time.Hour))
}
