package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"unilib-backend/internal/config"
	"unilib-backend/internal/jobs"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository/postgres"
	"unilib-backend/internal/scheduler"
	"unilib-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-due-reversions', 'mark-overdue-transactions', 'send-due-reminders', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Unilib Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	locks := keylock.New()
	emailSvc := service.NewEmailService(cfg.Email)
	reversionScheduler := service.NewScheduler(store.ReversionRepository)
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

	jobServices := &jobs.Services{
		Email:      emailSvc,
		Reversions: reversionScheduler,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cronScheduler.Stop()
	logger.Info("Shutdown complete")
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-due-reversions":
		jobRunner.SweepDueReversions()
	case "mark-overdue-transactions":
		jobRunner.MarkOverdueTransactions()
	case "send-due-reminders":
		jobRunner.SendDueReminders()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job: %s", jobName)
	}
}
