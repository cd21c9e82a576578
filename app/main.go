package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goplai/activity-scout/app/api"
	"github.com/goplai/activity-scout/app/catalog"
	"github.com/goplai/activity-scout/app/cfg"
	"github.com/goplai/activity-scout/app/classify"
	"github.com/goplai/activity-scout/app/database"
	"github.com/goplai/activity-scout/app/extract"
	"github.com/goplai/activity-scout/app/fetch"
	"github.com/goplai/activity-scout/app/normalize"
	"github.com/goplai/activity-scout/app/pipeline"
	"github.com/goplai/activity-scout/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Activity Scout", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	configCache := catalog.NewConfigCache(appCfg.LocalitiesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load locality configurations", "dir", appCfg.LocalitiesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Locality configurations loaded", "count", configCache.GetConfigCount())

	activityRepo := database.NewActivityRepository(db)
	localityRepo := database.NewLocalityRepository(db)

	client := fetch.NewClient(appCfg.UserAgent, appCfg.RequestsPerSecond)
	guard := fetch.NewGuard(client.HTTPClient(), appCfg.UserAgent)
	registry := extract.NewRegistry()
	classifier := classify.NewClassifier()
	normalizer := normalize.NewNormalizer()

	runner := pipeline.NewRunner(guard, client, registry, classifier, normalizer, activityRepo)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, localityRepo, activityRepo, runner, client, guard)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(configCache, activityRepo, localityRepo, runner, appCfg.MaxSourcesPerRun)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
