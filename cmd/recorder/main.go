package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/api"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/config"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/database"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/pricing"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/repository"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/scheduler"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create price source
	priceSource, err := pricing.New(cfg.Pricing)
	if err != nil {
		log.Fatalf("Failed to create price source: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	valuationRepo := repository.NewValuationRepository(db)

	// Create services
	recorder := service.NewRecorderService(
		userRepo,
		transactionRepo,
		valuationRepo,
		priceSource,
		cfg.Run,
	)

	// Run-once mode: execute a single valuation run and report the
	// outcome to the invoking scheduler through the exit status.
	if cfg.Scheduler.Schedule == "" {
		summary, err := recorder.Run(context.Background())
		if err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		if summary.Failed() {
			os.Exit(1)
		}
		return
	}

	// Daemon mode: trigger runs on the cron schedule and serve the
	// status API until interrupted.
	tracker := service.NewRunTracker()

	sched := scheduler.New()
	err = sched.Schedule(cfg.Scheduler.Schedule, func() {
		summary, err := recorder.Run(context.Background())
		if err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
		tracker.Record(summary)
	})
	if err != nil {
		log.Fatalf("Invalid RUN_SCHEDULE %q: %v", cfg.Scheduler.Schedule, err)
	}

	router := api.NewRouter(db, tracker, cfg)
	server := &http.Server{
		Addr:         cfg.Status.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting status server on %s", cfg.Status.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Status server failed to start: %v", err)
		}
	}()

	sched.Start()
	log.Printf("Scheduler started with schedule %q", cfg.Scheduler.Schedule)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Let an in-flight run finish before closing the database.
	<-sched.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Status server forced to shutdown: %v", err)
	}

	log.Println("Recorder exited")
}
