// File: internal/usecase/renewal_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/repository"
	"realty-subscription/internal/infra/metrics"
)

// Compile-time check
var _ RenewalUseCase = (*renewalUC)(nil)

// RenewCommand carries everything a renewal needs. Amount is the
// caller-claimed figure and is only consulted to detect discrepancies; the
// plan table is what actually gets charged.
type RenewCommand struct {
	Plan          model.Plan
	PaymentID     string
	TransactionID string
	Amount        int64
	PaymentMethod string
	Notes         string
}

type RenewalUseCase interface {
	// Renew extends (or creates) the subscriber's paid period in its own
	// transaction.
	Renew(ctx context.Context, subscriberID string, cmd RenewCommand) (*model.SubscriptionRecord, error)
	// RenewTx is Renew for callers that already hold a transaction, such as
	// the verification service finalizing a payment.
	RenewTx(ctx context.Context, tx repository.Tx, subscriberID string, cmd RenewCommand) (*model.SubscriptionRecord, error)
}

type renewalUC struct {
	subs repository.SubscriptionRepository
	tm   repository.TransactionManager
	log  *zerolog.Logger
}

func NewRenewalUseCase(subs repository.SubscriptionRepository, tm repository.TransactionManager, logger *zerolog.Logger) *renewalUC {
	l := logger.With().Str("component", "RenewalUC").Logger()
	return &renewalUC{subs: subs, tm: tm, log: &l}
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

func (uc *renewalUC) Renew(ctx context.Context, subscriberID string, cmd RenewCommand) (*model.SubscriptionRecord, error) {
	var out *model.SubscriptionRecord
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		s, err := uc.RenewTx(ctx, tx, subscriberID, cmd)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *renewalUC) RenewTx(ctx context.Context, tx repository.Tx, subscriberID string, cmd RenewCommand) (*model.SubscriptionRecord, error) {
	if subscriberID == "" || cmd.TransactionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !cmd.Plan.Valid() {
		return nil, domain.ErrUnknownPlan
	}

	// Serialize concurrent renewals per subscriber.
	if pgxTx, ok := tx.(pgx.Tx); ok {
		if _, err := pgxTx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", hashToInt64(subscriberID)); err != nil {
			return nil, domain.ErrStoreUnavailable
		}
	}

	notes := cmd.Notes
	price := cmd.Plan.Price()
	if cmd.Amount != 0 && cmd.Amount != price {
		// The table wins; keep an audit note instead of failing the renewal.
		notes = appendNote(notes, fmt.Sprintf("amount corrected from %d to %d for plan %s", cmd.Amount, price, cmd.Plan))
		uc.log.Warn().Err(domain.ErrPricingMismatch).
			Str("subscriber_id", subscriberID).
			Str("plan", string(cmd.Plan)).
			Int64("claimed", cmd.Amount).
			Int64("charged", price).
			Msg("caller amount overridden by pricing table")
		metrics.IncRenewalAmountCorrected()
	}

	now := time.Now()
	sub, err := uc.subs.FindBySubscriber(ctx, tx, subscriberID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		sub = &model.SubscriptionRecord{
			SubscriberID:     subscriberID,
			Plan:             cmd.Plan,
			CurrentPeriodEnd: now.Add(cmd.Plan.Duration()),
			CreatedAt:        now,
		}
	case err != nil:
		return nil, err
	default:
		if sub.LastTransactionID != nil && *sub.LastTransactionID == cmd.TransactionID {
			// Replayed verification; the period was already extended.
			uc.log.Debug().Str("subscriber_id", subscriberID).Str("transaction_id", cmd.TransactionID).Msg("duplicate renewal ignored")
			return sub, nil
		}
		// Extend from the later of now and the current boundary: renewing
		// early keeps the paid time, renewing after a lapse restarts from now.
		base := now
		if sub.CurrentPeriodEnd.After(now) {
			base = sub.CurrentPeriodEnd
		}
		sub.Plan = cmd.Plan
		sub.CurrentPeriodEnd = base.Add(cmd.Plan.Duration())
	}

	sub.LastTransactionID = &cmd.TransactionID
	if cmd.PaymentID != "" {
		pid := cmd.PaymentID
		sub.LastPaymentID = &pid
	}
	if cmd.PaymentMethod != "" {
		sub.PaymentMethod = cmd.PaymentMethod
	}
	if notes != "" {
		sub.Notes = &notes
	}
	sub.UpdatedAt = now

	if err := uc.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}

	metrics.IncRenewal(string(cmd.Plan))
	metrics.AddRevenue(price)
	uc.log.Info().
		Str("subscriber_id", subscriberID).
		Str("plan", string(cmd.Plan)).
		Time("period_end", sub.CurrentPeriodEnd).
		Msg("subscription renewed")
	return sub, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
