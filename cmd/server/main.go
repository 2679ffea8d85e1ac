package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "unilib-backend/internal/api/http"
	"unilib-backend/internal/config"
	"unilib-backend/internal/jobs"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository/postgres"
	"unilib-backend/internal/scheduler"
	"unilib-backend/internal/security"
	"unilib-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Unilib Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Shared per-key locks serialize every check-then-set across handlers,
	// timers, and cron callbacks.
	locks := keylock.New()

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	ledger := service.NewInventoryLedger(store.BookRepository)
	reversionScheduler := service.NewScheduler(store.ReversionRepository)

	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	catalogSvc := service.NewCatalogService(store.BookRepository, store.CategoryRepository, store.TransactionRepository)
	roomSvc := service.NewRoomService(store.RoomRepository, store.RoomTypeRepository, store.TimeslotRepository, store.ReservationRepository)
	availabilitySvc := service.NewAvailabilityService(store.RoomTimeslotRepository, store.RoomRepository, store.TimeslotRepository, locks)
	reservationSvc := service.NewReservationService(
		store.ReservationRepository,
		store.RoomTimeslotRepository,
		store.RoomRepository,
		store.TimeslotRepository,
		store.UserRepository,
		reversionScheduler,
		locks,
		cfg.Library.PendingHoldMinutes,
		cfg.Library.UsageWindowMinutes,
	)
	reversionScheduler.SetActions(reservationSvc)
	transactionSvc := service.NewTransactionService(store.TransactionRepository, store.UserRepository, ledger, locks, cfg.Library.LoanPeriodDays)
	renewalSvc := service.NewRenewalService(store.RenewRepository, store.TransactionRepository, store.UserRepository, emailSvc, locks, cfg.Library.LoanPeriodDays)

	// Re-arm persisted reversions lost to the last shutdown
	if err := reversionScheduler.Start(context.Background()); err != nil {
		logger.Error("Failed to start reversion scheduler", "error", err)
		log.Fatalf("Failed to start reversion scheduler: %v", err)
	}
	defer reversionScheduler.Stop()

	// In-process cron: reversion sweep plus the nightly jobs
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Email:      emailSvc,
		Reversions: reversionScheduler,
	}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// HTTP server
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         authSvc,
		Catalog:      catalogSvc,
		Rooms:        roomSvc,
		Availability: availabilitySvc,
		Reservations: reservationSvc,
		Transactions: transactionSvc,
		Renewals:     renewalSvc,
		Users:        userSvc,
	}, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Shutdown complete")
}
