package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sst-platform/backend/internal/config"
	"github.com/sst-platform/backend/internal/db"
	httpapi "github.com/sst-platform/backend/internal/http"
	"github.com/sst-platform/backend/internal/notify"
	"github.com/sst-platform/backend/internal/scheduler"
	"github.com/sst-platform/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "sst-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	var sender notify.Sender
	if cfg.NotifyURL == "" {
		sender = notify.NopSender{}
		logger.Info().Msg("no notification gateway configured, notices are dropped")
	} else {
		sender = notify.HTTPSender{BaseURL: cfg.NotifyURL}
	}
	notifier := notify.Service{Sender: sender, Logger: logger}

	gestion := service.NewGestionService(store, notifier, logger)
	gestion.WarningWindow = cfg.WarningWindow
	gestion.TaskRetention = time.Duration(cfg.TaskRetentionDays) * 24 * time.Hour
	controls := service.NewControlService(store, logger)
	legal := service.NewLegalService(store, notifier, logger)

	jobs := scheduler.New(logger,
		scheduler.Job{Name: "due-sweep", Interval: cfg.SweepInterval, Run: gestion.SweepDueAssignments},
		scheduler.Job{Name: "task-cleanup", Interval: cfg.CleanupInterval, Run: gestion.CleanupCompletedTasks},
	)
	jobsCtx, stopJobs := context.WithCancel(ctx)
	jobsDone := make(chan struct{})
	go func() {
		jobs.Start(jobsCtx)
		close(jobsDone)
	}()

	router := httpapi.Router(cfg, store, gestion, controls, legal, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopJobs()
	<-jobsDone

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
