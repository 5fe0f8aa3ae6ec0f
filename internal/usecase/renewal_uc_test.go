//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/usecase"
)

func newRenewalFixture(t *testing.T) (usecase.RenewalUseCase, *MemSubscriptionRepo) {
	t.Helper()
	subs := NewMemSubscriptionRepo()
	return usecase.NewRenewalUseCase(subs, NewMockTxManager(), newTestLogger()), subs
}

func TestRenewCreatesSubscription(t *testing.T) {
	renewal, _ := newRenewalFixture(t)
	ctx := context.Background()

	before := time.Now()
	sub, err := renewal.Renew(ctx, "provider-1", usecase.RenewCommand{
		Plan:          model.PlanQuarterly,
		TransactionID: "TXN-1",
		Amount:        35,
	})
	if err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	wantEnd := before.Add(90 * 24 * time.Hour)
	if diff := sub.CurrentPeriodEnd.Sub(wantEnd); diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("period end %v not within tolerance of %v", sub.CurrentPeriodEnd, wantEnd)
	}
	if sub.Plan != model.PlanQuarterly {
		t.Errorf("expected quarterly plan, got %s", sub.Plan)
	}
	if sub.Notes != nil {
		t.Errorf("unexpected note on a matching amount: %q", *sub.Notes)
	}
}

func TestRenewExtendsFromFutureBoundary(t *testing.T) {
	renewal, subs := newRenewalFixture(t)
	ctx := context.Background()

	end := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Second)
	seed := &model.SubscriptionRecord{
		SubscriberID:     "agent-1",
		Plan:             model.PlanMonthly,
		CurrentPeriodEnd: end,
		CreatedAt:        time.Now().Add(-20 * 24 * time.Hour),
	}
	if err := subs.Save(ctx, nil, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	sub, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{
		Plan:          model.PlanMonthly,
		TransactionID: "TXN-2",
		Amount:        15,
	})
	if err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	// Renewing early keeps the unused days: the new boundary is exactly the
	// old boundary plus one plan duration.
	want := end.Add(30 * 24 * time.Hour)
	if !sub.CurrentPeriodEnd.Equal(want) {
		t.Errorf("expected period end %v, got %v", want, sub.CurrentPeriodEnd)
	}
}

func TestRenewRestartsAfterLapse(t *testing.T) {
	renewal, subs := newRenewalFixture(t)
	ctx := context.Background()

	seed := &model.SubscriptionRecord{
		SubscriberID:     "agent-1",
		Plan:             model.PlanMonthly,
		CurrentPeriodEnd: time.Now().Add(-45 * 24 * time.Hour),
		CreatedAt:        time.Now().Add(-75 * 24 * time.Hour),
	}
	if err := subs.Save(ctx, nil, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	before := time.Now()
	sub, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{
		Plan:          model.PlanYearly,
		TransactionID: "TXN-3",
		Amount:        99,
	})
	if err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	// Lapsed time is not owed back: the new period starts from now.
	want := before.Add(365 * 24 * time.Hour)
	if diff := sub.CurrentPeriodEnd.Sub(want); diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("period end %v not within tolerance of %v", sub.CurrentPeriodEnd, want)
	}
	if sub.Plan != model.PlanYearly {
		t.Errorf("plan not switched: %s", sub.Plan)
	}
}

func TestRenewAmountCorrection(t *testing.T) {
	renewal, _ := newRenewalFixture(t)
	ctx := context.Background()

	sub, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{
		Plan:          model.PlanYearly,
		TransactionID: "TXN-4",
		Amount:        120, // caller claim disagrees with the table
	})
	if err != nil {
		t.Fatalf("Renew failed: %v", err)
	}
	if sub.Notes == nil || !strings.Contains(*sub.Notes, "corrected") {
		t.Errorf("expected a correction note, got %v", sub.Notes)
	}

	before := time.Now()
	want := before.Add(365 * 24 * time.Hour)
	if diff := sub.CurrentPeriodEnd.Sub(want); diff < -10*time.Second || diff > 10*time.Second {
		t.Errorf("renewal should proceed at table price for full duration, got end %v", sub.CurrentPeriodEnd)
	}
}

func TestRenewIdempotentOnTransactionID(t *testing.T) {
	renewal, _ := newRenewalFixture(t)
	ctx := context.Background()

	cmd := usecase.RenewCommand{Plan: model.PlanMonthly, TransactionID: "TXN-5", Amount: 15}
	first, err := renewal.Renew(ctx, "agent-1", cmd)
	if err != nil {
		t.Fatalf("first Renew failed: %v", err)
	}
	second, err := renewal.Renew(ctx, "agent-1", cmd)
	if err != nil {
		t.Fatalf("replayed Renew failed: %v", err)
	}
	if !second.CurrentPeriodEnd.Equal(first.CurrentPeriodEnd) {
		t.Errorf("replayed transaction extended the period: %v vs %v", first.CurrentPeriodEnd, second.CurrentPeriodEnd)
	}

	third, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{Plan: model.PlanMonthly, TransactionID: "TXN-6", Amount: 15})
	if err != nil {
		t.Fatalf("fresh Renew failed: %v", err)
	}
	if !third.CurrentPeriodEnd.After(second.CurrentPeriodEnd) {
		t.Error("a new transaction id must extend the period")
	}
}

func TestRenewValidation(t *testing.T) {
	renewal, _ := newRenewalFixture(t)
	ctx := context.Background()

	if _, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{Plan: model.Plan("weekly"), TransactionID: "TXN-7"}); !errors.Is(err, domain.ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
	if _, err := renewal.Renew(ctx, "agent-1", usecase.RenewCommand{Plan: model.PlanMonthly}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for missing transaction id, got %v", err)
	}
	if _, err := renewal.Renew(ctx, "", usecase.RenewCommand{Plan: model.PlanMonthly, TransactionID: "TXN-8"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for missing subscriber, got %v", err)
	}
}
