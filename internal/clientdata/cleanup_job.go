package clientdata

import (
	"github.com/aristath/twostocks/internal/utils"
	"github.com/rs/zerolog"
)

// CleanupJob removes expired entries from all cache tables.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo *Repository
	log  zerolog.Logger
}

// NewCleanupJob creates a new cache cleanup job.
func NewCleanupJob(repo *Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("job", "price_cache_cleanup").Logger(),
	}
}

// Run executes the cleanup job, removing all expired entries from all tables.
func (j *CleanupJob) Run() error {
	_, err := j.Purge()
	return err
}

// Purge removes expired entries and returns the total number deleted.
func (j *CleanupJob) Purge() (int64, error) {
	done := utils.MeasureDBQuery("delete_all_expired", j.log)
	results, err := j.repo.DeleteAllExpired()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired cache entries")
		return 0, err
	}

	var totalDeleted int64
	for table, count := range results {
		if count > 0 {
			j.log.Info().
				Str("table", table).
				Int64("deleted", count).
				Msg("Cleaned up expired cache entries")
			totalDeleted += count
		}
	}

	done(totalDeleted)
	if totalDeleted > 0 {
		j.log.Info().
			Int64("total_deleted", totalDeleted).
			Msg("Price cache cleanup completed")
	}

	return totalDeleted, nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "price_cache_cleanup"
}
