package scheduler

import (
	"github.com/aristath/twostocks/internal/database"
	"github.com/rs/zerolog"
)

// walFrameWarning is the WAL size, in frames, above which a full checkpoint is forced.
const walFrameWarning = 1000

// WALCheckpointJob keeps the cache database's WAL file from growing unbounded
type WALCheckpointJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewWALCheckpointJob creates a new WALCheckpointJob
func NewWALCheckpointJob(db *database.DB, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		db:  db,
		log: log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checks the WAL and truncates it when it is large
func (j *WALCheckpointJob) Run() error {
	if j.db == nil {
		return nil
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, frames, checkpointed int
	err := j.db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		j.log.Warn().Err(err).Str("database", j.db.Name()).Msg("Failed to check WAL checkpoint")
		return err
	}

	if frames <= walFrameWarning {
		j.log.Debug().
			Str("database", j.db.Name()).
			Int("wal_frames", frames).
			Msg("WAL checkpoint status OK")
		return nil
	}

	j.log.Warn().
		Str("database", j.db.Name()).
		Int("wal_frames", frames).
		Int("checkpointed", checkpointed).
		Msg("WAL file is large, truncating")

	return j.db.WALCheckpoint("TRUNCATE")
}
