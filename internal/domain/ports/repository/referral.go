package repository

import (
	"context"

	"realty-subscription/internal/domain/model"
)

// ReferralRepository is the port for referral attributions. Records are
// immutable after creation and unique per referee (first-referral-wins).
type ReferralRepository interface {
	// Save inserts the referral unless the referee is already attributed, in
	// which case the existing record is returned untouched.
	Save(ctx context.Context, r *model.ReferralRecord) (*model.ReferralRecord, error)
	FindByReferee(ctx context.Context, refereeID string) (*model.ReferralRecord, error)
	// CountByReferrer returns per-kind referral counts for one referrer.
	CountByReferrer(ctx context.Context, referrerID string) (agents int, providers int, err error)
	ListByReferrer(ctx context.Context, referrerID string, kind model.RefereeKind) ([]*model.ReferralRecord, error)
}
