package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wordflash/internal/api"
	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/cardgen"
	"github.com/vytor/wordflash/internal/config"
	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/srs"
	"github.com/vytor/wordflash/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WordFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("daily_quota=%d", cfg.DailyQuota)
	log.Debug("srs_intervals=%v", cfg.Intervals)
	log.Debug("srs_streak_to_level_up=%d", cfg.StreakToLevelUp)
	log.Debug("srs_max_level=%d", cfg.MaxLevel)
	log.Debug("rollover_at=%s", cfg.RolloverAt)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("upload_dir=%s", cfg.UploadDir)
	log.Debug("cardgen_enabled=%v", cfg.CardGenEnabled())

	clock, err := calendar.LoadClock(cfg.Timezone)
	if err != nil {
		log.Error("failed to load timezone: %v", err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	profileRepo := sqlite.NewProfileRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	var generator cardgen.Generator
	if cfg.CardGenEnabled() {
		g, err := cardgen.NewOpenAIGenerator(cardgen.Config{
			APIKey:  cfg.CardGenAPIKey,
			BaseURL: cfg.CardGenBaseURL,
			Model:   cfg.CardGenModel,
			Timeout: cfg.CardGenTimeout,
		})
		if err != nil {
			log.Error("failed to configure card generation: %v", err)
			os.Exit(1)
		}
		generator = g
		log.Info("card generation enabled: model=%s", cfg.CardGenModel)
	} else {
		log.Info("card generation disabled (CARDGEN_API_KEY not set)")
	}

	// Initialize services
	policy := cfg.Policy()
	reviewService := services.NewReviewService(
		profileRepo, cardRepo, sessionRepo,
		srs.NewSelector(nil),
		srs.NewGrader(policy, clock.Now),
		clock,
	)
	profileService := services.NewProfileService(profileRepo, cfg.DailyQuota)
	cardService := services.NewCardService(cardRepo, reviewService, generator, clock, policy)
	importService := services.NewImportService(cardRepo)

	// Initialize worker pool and job queue
	importPool := worker.NewPool("import", cfg.ImportWorkerCount, cfg.ImportQueueSize)
	jobQueue := jobs.NewWorkerQueue(importPool, importService)

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	rollover := jobs.NewRollover(clock.Location(), cfg.RolloverAt, profileService, reviewService)
	if err := rollover.Start(ctx); err != nil {
		log.Error("failed to schedule session rollover: %v", err)
		os.Exit(1)
	}
	log.Info("session rollover scheduled, next run at %s", rollover.NextRun().Format(time.RFC3339))

	srv := &api.Server{
		DB:             database,
		ProfileService: profileService,
		CardService:    cardService,
		ReviewService:  reviewService,
		JobQueue:       jobQueue,
		UploadDir:      cfg.UploadDir,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping session rollover")
	rollover.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Let queued imports finish before the database closes
	log.Debug("stopping import pool")
	importPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("WordFlash Server Stopped")
	log.Info("===========================================")
}
