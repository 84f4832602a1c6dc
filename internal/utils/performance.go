package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Default thresholds for Timer. An analysis run is CPU-bound and normally
// finishes in milliseconds.
const (
	DefaultNoticeThreshold = 500 * time.Millisecond
	DefaultSlowThreshold   = 5 * time.Second
)

// Timer is a simple performance timer for measuring operation duration
type Timer struct {
	start  time.Time
	name   string
	log    zerolog.Logger
	notice time.Duration
	slow   time.Duration
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start:  time.Now(),
		name:   name,
		log:    log,
		notice: DefaultNoticeThreshold,
		slow:   DefaultSlowThreshold,
	}
}

// WithThresholds replaces the notice and slow thresholds.
func (t *Timer) WithThresholds(notice, slow time.Duration) *Timer {
	t.notice = notice
	t.slow = slow
	return t
}

// Stop stops the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.log.Debug().
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Msg("Performance measurement")

	if duration > t.slow {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("Slow operation detected")
	} else if duration > t.notice {
		t.log.Info().
			Str("operation", t.name).
			Dur("duration", duration).
			Msg("Operation took longer than expected")
	}

	return duration
}

// MeasureDBQuery measures database query performance
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		if duration > 5*time.Second {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}
	}
}
