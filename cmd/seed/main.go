package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"realty-subscription/internal/config"
	"realty-subscription/internal/domain/model"
	pg "realty-subscription/internal/infra/db/postgres"
	"realty-subscription/internal/infra/logging"
	"realty-subscription/internal/usecase"
)

// Seeds a handful of subscribers, payment attempts and referrals so the admin
// dashboard has something to show during local development.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.Migrate(cfg.Database.URL); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	refRepo := pg.NewReferralRepo(pool)
	tm := pg.NewTxManager(pool)

	renewalUC := usecase.NewRenewalUseCase(subRepo, tm, logger)
	verifyUC := usecase.NewVerificationUseCase(payRepo, renewalUC, tm, nil, logger)
	commissionUC := usecase.NewCommissionUseCase(refRepo, cfg.Commission.AgentBonus, cfg.Commission.ProviderBonus, logger)

	// Idempotency guard: bail out if anything is already there.
	if pending, err := payRepo.ListPending(ctx); err != nil {
		log.Fatalf("list pending: %v", err)
	} else if len(pending) > 0 {
		fmt.Printf("%d pending payments already present. No changes.\n", len(pending))
		return
	}

	// One verified monthly subscriber, one pending quarterly claim, one
	// rejected attempt.
	p1, err := verifyUC.Submit(ctx, "agent-1001", model.PlanMonthly, 15, "USD", "bank_transfer")
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	if _, err := verifyUC.Verify(ctx, p1.ID, "TXN-SEED-0001", "seeded"); err != nil {
		log.Fatalf("verify: %v", err)
	}

	if _, err := verifyUC.Submit(ctx, "provider-2001", model.PlanQuarterly, 35, "USD", "gateway"); err != nil {
		log.Fatalf("submit: %v", err)
	}

	p3, err := verifyUC.Submit(ctx, "agent-1002", model.PlanYearly, 120, "USD", "bank_transfer")
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	if _, err := verifyUC.MarkFailed(ctx, p3.ID, "no matching bank transfer found"); err != nil {
		log.Fatalf("mark failed: %v", err)
	}

	// Referrals for one marketing executive.
	for _, seed := range []struct {
		referee string
		kind    model.RefereeKind
	}{
		{"agent-1001", model.RefereeKindAgent},
		{"agent-1002", model.RefereeKindAgent},
		{"provider-2001", model.RefereeKindProvider},
	} {
		if _, err := commissionUC.Record(ctx, "mx-3001", seed.referee, seed.kind); err != nil {
			log.Fatalf("record referral %s: %v", seed.referee, err)
		}
	}

	fmt.Println("seeding complete")
}
