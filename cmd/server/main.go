// Package main is the entry point for the twostocks HTTP server. It serves
// two-asset analyses, frontiers and charts over JSON/PNG endpoints and keeps
// the price cache tidy in the background.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/di"
	optimizationhandlers "github.com/aristath/twostocks/internal/modules/optimization/handlers"
	"github.com/aristath/twostocks/internal/scheduler"
	"github.com/aristath/twostocks/internal/server"
	"github.com/aristath/twostocks/pkg/logger"
)

// main orchestrates the startup sequence:
// 1. Loads configuration from environment variables (.env file)
// 2. Initializes logging
// 3. Wires dependencies (cache database, Yahoo client, services, jobs)
// 4. Starts the scheduler and the HTTP server
// 5. Waits for SIGINT/SIGTERM and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("period", cfg.Market.Period).
		Str("interval", cfg.Market.Interval).
		Msg("Starting twostocks")

	sched := scheduler.New(log)

	container, jobs, err := di.Wire(cfg, nil, sched, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:          log,
		CacheDB:      container.CacheDB,
		Cache:        container.CacheRepo,
		Optimization: optimizationhandlers.NewHandler(container.AnalysisService, container.ChartsService, log),
		Port:         cfg.Port,
		DevMode:      cfg.DevMode,
	})
	srv.SetJobs(jobs.CacheCleanup, jobs.WALCheckpoint)

	// Purge whatever expired while the server was down
	if err := sched.RunNow(jobs.CacheCleanup); err != nil {
		log.Warn().Err(err).Msg("Initial cache cleanup failed")
	}
	sched.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// In-flight requests get up to 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
