package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/vytor/lingoplay/internal/api"
	"github.com/vytor/lingoplay/internal/config"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/db"
	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/jobs"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/progress"
	"github.com/vytor/lingoplay/internal/pronunciation"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/repository/memory"
	"github.com/vytor/lingoplay/internal/repository/sqlite"
	"github.com/vytor/lingoplay/internal/services"
	"github.com/vytor/lingoplay/internal/uploads"
	"github.com/vytor/lingoplay/internal/worker"
	"golang.org/x/crypto/bcrypt"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
		logger.WithColors(cfg.LogFormat == "console"),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LingoPlay Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("upload_dir=%s", cfg.UploadDir)
	log.Debug("default_language=%s", cfg.DefaultLanguage)
	log.Debug("report_endpoint=%s", cfg.ReportEndpoint)
	log.Debug("report_worker_count=%d", cfg.ReportWorkerCount)
	log.Debug("report_queue_size=%d", cfg.ReportQueueSize)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("similarity_metric=%s", cfg.SimilarityMetric)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := clockwork.NewRealClock()

	// Open the activity store
	var (
		store      repository.Store
		readyCheck func(context.Context) error
	)
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		store = sqlite.New(database.DB)
		readyCheck = database.PingContext
	default:
		store = memory.New(clock)
	}
	if err := repository.Seed(ctx, store); err != nil {
		log.Error("failed to seed store: %v", err)
		os.Exit(1)
	}

	content := dataset.MustLoad(cfg.DefaultLanguage)
	log.Debug("game content loaded for languages %v", content.Languages())

	metric, err := pronunciation.MetricByName(cfg.SimilarityMetric)
	if err != nil {
		log.Error("invalid similarity metric: %v", err)
		os.Exit(1)
	}
	engine := pronunciation.NewEngine(metric, pronunciation.Thresholds{
		Word:    cfg.WordMatchThreshold,
		Pass:    cfg.PassThreshold,
		Partial: cfg.PartialThreshold,
	}, cfg.WholeStringLanguages)

	images, err := uploads.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Error("failed to prepare upload dir: %v", err)
		os.Exit(1)
	}

	// Initialize services
	progressService := services.NewProgressService(store, clock, cfg.DefaultLanguage)

	// Completed sessions are credited in-process unless an external
	// progress endpoint is configured.
	var recorder progress.Recorder = progressService
	if cfg.ReportEndpoint != "" {
		recorder = progress.NewClient(cfg.ReportEndpoint, cfg.ReportTimeout)
	}
	reportPool := worker.NewPool("reports", cfg.ReportWorkerCount, cfg.ReportQueueSize)
	// Detached from ctx so queued reports still drain during shutdown.
	reportPool.Start(context.Background())

	sessionService := services.NewSessionService(services.SessionConfig{
		Games:           store.Games,
		Content:         content,
		Scheduler:       game.NewScheduler(clock),
		Clock:           clock,
		Reports:         jobs.NewWorkerQueue(reportPool, recorder, cfg.ReportTimeout),
		DefaultLanguage: cfg.DefaultLanguage,
		TTL:             cfg.SessionTTL,
	})
	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		sessionService.Run(logger.NewContext(ctx, log), sweepInterval)
	}()

	srv := &api.Server{
		Users:          services.NewUserService(store.Users, bcrypt.DefaultCost),
		Catalog:        services.NewCatalogService(store.Languages, store.Activities, store.Games),
		Progress:       progressService,
		ExtractedTexts: services.NewExtractedTextService(store.ExtractedTexts, store.Languages, images),
		Pronunciation:  services.NewPronunciationService(engine, progressService),
		Sessions:       sessionService,
		UploadDir:      images.Dir(),
		MaxUploadBytes: images.MaxBytes(),
		ReadyCheck:     readyCheck,
	}

	// WriteTimeout stays unset so session event streams are not cut off.
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stopping sessions first closes open event streams.
	log.Debug("stopping sessions")
	cancel()
	<-sessionsDone

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("draining report pool")
	reportPool.Stop()

	log.Info("===========================================")
	log.Info("LingoPlay Server Stopped")
	log.Info("===========================================")
}
