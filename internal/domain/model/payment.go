package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // submitted; awaiting admin or gateway verification
	PaymentStatusSucceeded PaymentStatus = "succeeded" // verified; subscription extended
	PaymentStatusFailed    PaymentStatus = "failed"    // verification rejected
)

// PaymentRecord is the durable record of one payment attempt. Rows are never
// deleted; the pending state is the only non-terminal one.
type PaymentRecord struct {
	ID            string // ULID, sortable by creation time
	SubscriberID  string // opaque id shared with the identity subsystem
	Amount        int64  // currency units as claimed at submission
	Currency      string
	Plan          Plan
	TransactionID *string // bank/gateway reference; required to reach succeeded
	Status        PaymentStatus
	FailureReason *string
	RetryCount    int
	AdminNotes    *string
	PaymentMethod string // e.g. "bank_transfer", "gateway"
	CreatedAt     time.Time
	VerifiedAt    *time.Time
	FailedAt      *time.Time
}

// Terminal reports whether the payment has reached an absorbing state.
func (p *PaymentRecord) Terminal() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusFailed
}
