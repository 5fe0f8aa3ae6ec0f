// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"realty-subscription/internal/config"
	pg "realty-subscription/internal/infra/db/postgres"
	"realty-subscription/internal/infra/logging"
	"realty-subscription/internal/infra/metrics"
	"realty-subscription/internal/infra/notify"
	red "realty-subscription/internal/infra/redis"
	"realty-subscription/internal/infra/sched"
	"realty-subscription/internal/infra/web"
	"realty-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed auth config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	if err := pg.Migrate(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional: lock + rate limiting degrade gracefully) ----
	var locker *red.RedisLocker
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		locker = red.NewLocker(redisClient)
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; verification dedupe lock and rate limiting disabled")
	}

	// ---- Repositories ----
	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	refRepo := pg.NewReferralRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	renewalUC := usecase.NewRenewalUseCase(subRepo, tm, logger)
	var verifyUC usecase.VerificationUseCase
	if locker != nil {
		verifyUC = usecase.NewVerificationUseCase(payRepo, renewalUC, tm, locker, logger)
	} else {
		verifyUC = usecase.NewVerificationUseCase(payRepo, renewalUC, tm, nil, logger)
	}
	expiryUC := usecase.NewExpiryUseCase(payRepo, subRepo, logger)
	commissionUC := usecase.NewCommissionUseCase(refRepo, cfg.Commission.AgentBonus, cfg.Commission.ProviderBonus, logger)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- Reminder worker ----
	if cfg.Reminder.Interval > 0 {
		worker := sched.NewReminderWorker(cfg.Reminder.Interval, cfg.Reminder.WindowDays, subRepo, notify.NewLogNotifier(logger), logger)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("reminder worker exited")
			}
		}()
	}

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	server := web.NewServer(cfg, verifyUC, renewalUC, expiryUC, commissionUC, auth, limiter, logger)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
