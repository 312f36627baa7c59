// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutoring-checkin/internal/config"
	"tutoring-checkin/internal/domain/ports/adapter"
	ledgerAdapters "tutoring-checkin/internal/infra/adapters/ledger"
	apiv1 "tutoring-checkin/internal/infra/api/apiv1"
	pg "tutoring-checkin/internal/infra/db/postgres"
	"tutoring-checkin/internal/infra/logging"
	"tutoring-checkin/internal/infra/metrics"
	red "tutoring-checkin/internal/infra/redis"
	"tutoring-checkin/internal/infra/sched"
	"tutoring-checkin/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop ledger fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	customerRepo := pg.NewCustomerRepo(pool)
	studentRepo := pg.NewStudentRepo(pool)
	sessionTypeRepo := pg.NewSessionTypeRepo(pool)
	scanCodeRepo := pg.NewScanCodeRepo(pool)
	attendanceRepo := pg.NewAttendanceRepo(pool)

	// ---- Ledger adapter ----
	var gateway adapter.LedgerGateway
	switch cfg.Ledger.Provider {
	case "quickbooks":
		qb := cfg.Ledger.QuickBooks
		gateway, err = ledgerAdapters.NewQuickBooksGateway(qb.BaseURL, qb.RealmID, qb.AccessToken, qb.Sandbox)
		if err != nil {
			logger.Fatal().Err(err).Msg("quickbooks gateway")
		}
		logger.Info().Bool("sandbox", qb.Sandbox).Msg("ledger adapter: quickbooks")
	case "noop":
		gateway = ledgerAdapters.NewNoopLedgerGateway()
		logger.Warn().Msg("ledger adapter: noop (invoices are not real)")
	default:
		logger.Fatal().Str("provider", cfg.Ledger.Provider).Msg("unknown ledger provider")
	}

	// ---- Use cases ----
	customerUC := usecase.NewCustomerUseCase(customerRepo, studentRepo, txManager, logger)
	sessionTypeUC := usecase.NewSessionTypeUseCase(sessionTypeRepo)
	codeUC := usecase.NewCodeUseCase(scanCodeRepo, customerRepo, logger)
	checkInUC := usecase.NewCheckInUseCase(attendanceRepo, studentRepo, sessionTypeRepo, logger)
	billingUC := usecase.NewBillingUseCase(attendanceRepo, gateway, locker, cfg.Redis.LockTTL, cfg.Ledger.Timeout, logger)

	// ---- HTTP server ----
	srv := apiv1.NewServer(customerUC, codeUC, checkInUC, billingUC, sessionTypeUC, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.HTTP.Port).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Billing reconciler ----
	reconciler := sched.NewBillingReconciler(billingUC, attendanceRepo, cfg.Scheduler.SyncInterval, cfg.Scheduler.StaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
