package di

import (
	"fmt"

	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/scheduler"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
// 1. Initialize databases
// 2. Initialize repository, clients and services
// 3. Register jobs (scheduled only when sched is non-nil)
// source replaces the Yahoo client when non-nil.
func Wire(cfg *config.Config, source marketdata.PriceSource, sched *scheduler.Scheduler, log zerolog.Logger) (*Container, *JobInstances, error) {
	container, err := InitializeDatabases(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := InitializeServices(container, cfg, source, log); err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	jobs, err := RegisterJobs(container, cfg, sched, log)
	if err != nil {
		container.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Debug().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}
