package di

import (
	"fmt"

	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/scheduler"
	"github.com/rs/zerolog"
)

// walCheckpointSchedule runs the WAL check every hour at minute 30.
const walCheckpointSchedule = "0 30 * * * *"

// RegisterJobs creates the maintenance jobs and, when sched is non-nil,
// registers them on their cron schedules.
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.CacheRepo == nil {
		return nil, fmt.Errorf("container is not initialized")
	}

	instances := &JobInstances{
		CacheCleanup:  clientdata.NewCleanupJob(container.CacheRepo, log),
		WALCheckpoint: scheduler.NewWALCheckpointJob(container.CacheDB, log),
	}

	if sched == nil {
		return instances, nil
	}

	if err := sched.AddJob(cfg.Cache.CleanupSchedule, instances.CacheCleanup); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.CacheCleanup.Name(), err)
	}
	if err := sched.AddJob(walCheckpointSchedule, instances.WALCheckpoint); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.WALCheckpoint.Name(), err)
	}

	return instances, nil
}
