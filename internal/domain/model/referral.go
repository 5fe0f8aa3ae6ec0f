package model

import "time"

type RefereeKind string

const (
	RefereeKindAgent    RefereeKind = "agent"
	RefereeKindProvider RefereeKind = "provider"
)

func (k RefereeKind) Valid() bool {
	return k == RefereeKindAgent || k == RefereeKindProvider
}

// ReferralRecord links a referred agent or service provider to the marketing
// executive who brought them in. A referee has at most one referrer
// (first-referral-wins) and the record is immutable once written.
type ReferralRecord struct {
	ID          string // UUID
	ReferrerID  string // marketing executive
	RefereeID   string
	RefereeKind RefereeKind
	CreatedAt   time.Time
}

// Earnings is the derived commission summary for one marketing executive.
// It is never stored; totals are recomputed from referral counts on every read.
type Earnings struct {
	AgentCount    int
	ProviderCount int
	Total         int64
}
