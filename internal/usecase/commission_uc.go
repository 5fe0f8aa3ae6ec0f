// File: internal/usecase/commission_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
	"realty-subscription/internal/infra/metrics"
)

// Compile-time check
var _ CommissionUseCase = (*commissionUC)(nil)

type CommissionUseCase interface {
	// Record attributes a freshly registered agent/provider to a marketing
	// executive. First referral wins: a later attempt for the same referee
	// returns the existing attribution unchanged.
	Record(ctx context.Context, referrerID, refereeID string, kind model.RefereeKind) (*model.ReferralRecord, error)
	// Earnings recomputes the referrer's commission summary from counts.
	Earnings(ctx context.Context, referrerID string) (*model.Earnings, error)
	ListReferred(ctx context.Context, referrerID string, kind model.RefereeKind) ([]*model.ReferralRecord, error)
}

type commissionUC struct {
	refs          repository.ReferralRepository
	agentBonus    int64
	providerBonus int64
	log           *zerolog.Logger
}

func NewCommissionUseCase(refs repository.ReferralRepository, agentBonus, providerBonus int64, logger *zerolog.Logger) *commissionUC {
	l := logger.With().Str("component", "CommissionUC").Logger()
	return &commissionUC{refs: refs, agentBonus: agentBonus, providerBonus: providerBonus, log: &l}
}

func (uc *commissionUC) Record(ctx context.Context, referrerID, refereeID string, kind model.RefereeKind) (*model.ReferralRecord, error) {
	if referrerID == "" || refereeID == "" || referrerID == refereeID {
		return nil, domain.ErrInvalidArgument
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	r := &model.ReferralRecord{
		ID:          uuid.NewString(),
		ReferrerID:  referrerID,
		RefereeID:   refereeID,
		RefereeKind: kind,
		CreatedAt:   time.Now(),
	}
	saved, err := uc.refs.Save(ctx, r)
	if err != nil {
		return nil, err
	}
	if saved.ID == r.ID {
		metrics.IncReferralRecorded(string(kind))
		uc.log.Info().
			Str("referrer_id", referrerID).
			Str("referee_id", refereeID).
			Str("kind", string(kind)).
			Msg("referral recorded")
	}
	return saved, nil
}

// Earnings derives commission from referral counts alone: the bonus is earned
// on successful onboarding, independent of the referee's own payment status.
func (uc *commissionUC) Earnings(ctx context.Context, referrerID string) (*model.Earnings, error) {
	if referrerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	agents, providers, err := uc.refs.CountByReferrer(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	return &model.Earnings{
		AgentCount:    agents,
		ProviderCount: providers,
		Total:         int64(agents)*uc.agentBonus + int64(providers)*uc.providerBonus,
	}, nil
}

func (uc *commissionUC) ListReferred(ctx context.Context, referrerID string, kind model.RefereeKind) ([]*model.ReferralRecord, error) {
	if referrerID == "" || !kind.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return uc.refs.ListByReferrer(ctx, referrerID, kind)
}
