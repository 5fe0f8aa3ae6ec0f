//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty-subscription/internal/domain"
	"realty-subscription/internal/domain/model"
	"realty-subscription/internal/usecase"
)

func newExpiryFixture(t *testing.T) (usecase.ExpiryUseCase, *MemPaymentRepo, *MemSubscriptionRepo) {
	t.Helper()
	payments := NewMemPaymentRepo()
	subs := NewMemSubscriptionRepo()
	return usecase.NewExpiryUseCase(payments, subs, newTestLogger()), payments, subs
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active with days remaining", func(t *testing.T) {
		expiry, _, subs := newExpiryFixture(t)
		_ = subs.Save(ctx, nil, &model.SubscriptionRecord{
			SubscriberID:     "agent-1",
			Plan:             model.PlanMonthly,
			CurrentPeriodEnd: now.Add(10 * 24 * time.Hour),
		})

		st, err := expiry.Status(ctx, "agent-1", now)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Active {
			t.Error("expected active")
		}
		if st.DaysRemaining != 10 {
			t.Errorf("expected 10 days remaining, got %d", st.DaysRemaining)
		}
	})

	t.Run("partial day rounds up", func(t *testing.T) {
		expiry, _, subs := newExpiryFixture(t)
		_ = subs.Save(ctx, nil, &model.SubscriptionRecord{
			SubscriberID:     "agent-1",
			Plan:             model.PlanMonthly,
			CurrentPeriodEnd: now.Add(36 * time.Hour),
		})

		st, _ := expiry.Status(ctx, "agent-1", now)
		if st.DaysRemaining != 2 {
			t.Errorf("expected 36h to round up to 2 days, got %d", st.DaysRemaining)
		}
	})

	t.Run("lapsed subscription never reports negative days", func(t *testing.T) {
		expiry, _, subs := newExpiryFixture(t)
		_ = subs.Save(ctx, nil, &model.SubscriptionRecord{
			SubscriberID:     "agent-1",
			Plan:             model.PlanMonthly,
			CurrentPeriodEnd: now.Add(-6 * 24 * time.Hour),
		})

		st, err := expiry.Status(ctx, "agent-1", now)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if st.Active {
			t.Error("expected inactive")
		}
		if st.DaysRemaining != 0 {
			t.Errorf("expected 0 days remaining, got %d", st.DaysRemaining)
		}
	})

	t.Run("never subscribed", func(t *testing.T) {
		expiry, _, _ := newExpiryFixture(t)
		if _, err := expiry.Status(ctx, "ghost-1", now); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry, _, subs := newExpiryFixture(t)

	_ = subs.Save(ctx, nil, &model.SubscriptionRecord{SubscriberID: "a", Plan: model.PlanMonthly, CurrentPeriodEnd: now.Add(-36 * time.Hour)})
	_ = subs.Save(ctx, nil, &model.SubscriptionRecord{SubscriberID: "b", Plan: model.PlanMonthly, CurrentPeriodEnd: now.Add(-10 * 24 * time.Hour)})
	_ = subs.Save(ctx, nil, &model.SubscriptionRecord{SubscriberID: "c", Plan: model.PlanMonthly, CurrentPeriodEnd: now.Add(5 * 24 * time.Hour)})

	out, err := expiry.ListExpired(ctx, now)
	if err != nil {
		t.Fatalf("ListExpired failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 expired, got %d", len(out))
	}
	if out[0].SubscriberID != "b" {
		t.Errorf("expected most overdue first, got %s", out[0].SubscriberID)
	}
	if out[0].DaysOverdue != 10 {
		t.Errorf("expected 10 days overdue, got %d", out[0].DaysOverdue)
	}
	// 36 hours overdue counts one whole day.
	if out[1].DaysOverdue != 1 {
		t.Errorf("expected 1 day overdue for 36h, got %d", out[1].DaysOverdue)
	}
}

func TestPendingAndFailedQueues(t *testing.T) {
	ctx := context.Background()
	expiry, payments, _ := newExpiryFixture(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id string, status model.PaymentStatus, createdAt time.Time, failedAt *time.Time) {
		_ = payments.Save(ctx, nil, &model.PaymentRecord{
			ID:           id,
			SubscriberID: "agent-1",
			Amount:       15,
			Currency:     "USD",
			Plan:         model.PlanMonthly,
			Status:       status,
			CreatedAt:    createdAt,
			FailedAt:     failedAt,
		})
	}
	f1 := base.Add(3 * time.Hour)
	f2 := base.Add(5 * time.Hour)
	mk("01AAA", model.PaymentStatusPending, base.Add(2*time.Hour), nil)
	mk("01BBB", model.PaymentStatusPending, base, nil)
	mk("01CCC", model.PaymentStatusFailed, base, &f1)
	mk("01DDD", model.PaymentStatusFailed, base, &f2)

	pending, err := expiry.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "01BBB" {
		t.Errorf("expected oldest pending first, got %+v", ids(pending))
	}

	failed, err := expiry.ListFailed(ctx)
	if err != nil {
		t.Fatalf("ListFailed failed: %v", err)
	}
	if len(failed) != 2 || failed[0].ID != "01DDD" {
		t.Errorf("expected most recent failure first, got %+v", ids(failed))
	}
}

func ids(ps []*model.PaymentRecord) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
