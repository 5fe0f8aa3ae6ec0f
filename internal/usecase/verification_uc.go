// File: internal/usecase/verification_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/domain/ports/adapter"
	"realty-subscription/internal/domain/ports/repository"
	"realty-subscription/internal/infra/metrics"
)

// Compile-time check
var _ VerificationUseCase = (*verificationUC)(nil)

const verifyLockTTL = 15 * time.Second

type VerificationUseCase interface {
	// Submit records a new pending payment attempt (manual claim or gateway
	// callback).
	Submit(ctx context.Context, subscriberID string, plan model.Plan, amount int64, currency, method string) (*model.PaymentRecord, error)
	// Verify confirms a pending payment and extends the linked subscription.
	Verify(ctx context.Context, paymentID, transactionID, notes string) (*model.SubscriptionRecord, error)
	// MarkFailed rejects a pending payment with a reason.
	MarkFailed(ctx context.Context, paymentID, reason string) (*model.PaymentRecord, error)
}

type verificationUC struct {
	payments repository.PaymentRepository
	renewal  RenewalUseCase
	tm       repository.TransactionManager
	locks    adapter.Locker // optional; de-dupes webhook/admin races pre-DB
	log      *zerolog.Logger
}

func NewVerificationUseCase(
	payments repository.PaymentRepository,
	renewal RenewalUseCase,
	tm repository.TransactionManager,
	locks adapter.Locker,
	logger *zerolog.Logger,
) *verificationUC {
	l := logger.With().Str("component", "VerificationUC").Logger()
	return &verificationUC{payments: payments, renewal: renewal, tm: tm, locks: locks, log: &l}
}

func (uc *verificationUC) Submit(ctx context.Context, subscriberID string, plan model.Plan, amount int64, currency, method string) (*model.PaymentRecord, error) {
	if subscriberID == "" || amount <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if !plan.Valid() {
		return nil, domain.ErrUnknownPlan
	}
	if currency == "" {
		currency = "USD"
	}
	if method == "" {
		method = "bank_transfer"
	}

	p := &model.PaymentRecord{
		ID:            ulid.Make().String(),
		SubscriberID:  subscriberID,
		Amount:        amount,
		Currency:      currency,
		Plan:          plan,
		Status:        model.PaymentStatusPending,
		PaymentMethod: method,
		CreatedAt:     time.Now(),
	}
	if err := uc.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}

	metrics.IncPayment("pending")
	uc.log.Info().
		Str("payment_id", p.ID).
		Str("subscriber_id", subscriberID).
		Str("plan", string(plan)).
		Int64("amount", amount).
		Msg("payment attempt submitted")
	return p, nil
}

func (uc *verificationUC) Verify(ctx context.Context, paymentID, transactionID, notes string) (*model.SubscriptionRecord, error) {
	if paymentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(transactionID) == "" {
		// A succeeded payment without a bank reference would be unauditable.
		return nil, domain.ErrInvalidArgument
	}

	if uc.locks != nil {
		token, err := uc.locks.TryLock(ctx, "verify:payment:"+paymentID, verifyLockTTL)
		if err != nil {
			return nil, domain.ErrVerifyInFlight
		}
		defer func() { _ = uc.locks.Unlock(ctx, "verify:payment:"+paymentID, token) }()
	}

	var sub *model.SubscriptionRecord
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := uc.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.Terminal() {
			return domain.ErrInvalidState
		}

		now := time.Now()
		tid := strings.TrimSpace(transactionID)
		p.TransactionID = &tid
		p.Status = model.PaymentStatusSucceeded
		p.VerifiedAt = &now
		if notes != "" {
			n := notes
			p.AdminNotes = &n
		}
		if err := uc.payments.Save(ctx, tx, p); err != nil {
			return err
		}

		sub, err = uc.renewal.RenewTx(ctx, tx, p.SubscriberID, RenewCommand{
			Plan:          p.Plan,
			PaymentID:     p.ID,
			TransactionID: tid,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
			Notes:         notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment("succeeded")
	uc.log.Info().
		Str("payment_id", paymentID).
		Str("subscriber_id", sub.SubscriberID).
		Time("period_end", sub.CurrentPeriodEnd).
		Msg("payment verified")
	return sub, nil
}

func (uc *verificationUC) MarkFailed(ctx context.Context, paymentID, reason string) (*model.PaymentRecord, error) {
	if paymentID == "" || strings.TrimSpace(reason) == "" {
		return nil, domain.ErrInvalidArgument
	}

	var out *model.PaymentRecord
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := uc.payments.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if p.Terminal() {
			// Second call errors instead of double-incrementing the counter.
			return domain.ErrInvalidState
		}

		now := time.Now()
		r := strings.TrimSpace(reason)
		p.Status = model.PaymentStatusFailed
		p.FailureReason = &r
		p.RetryCount++
		p.FailedAt = &now
		if err := uc.payments.Save(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment("failed")
	uc.log.Info().
		Str("payment_id", paymentID).
		Str("reason", reason).
		Msg("payment marked failed")
	return out, nil
}
