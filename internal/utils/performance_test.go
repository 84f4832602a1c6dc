package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_LogsDuration(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	d := NewTimer("two_asset_analysis", log).Stop()

	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Contains(t, buf.String(), `"operation":"two_asset_analysis"`)
	assert.Contains(t, buf.String(), "Performance measurement")
	assert.NotContains(t, buf.String(), "Slow operation detected")
}

func TestTimer_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		notice time.Duration
		slow   time.Duration
		want   string
	}{
		{"slow", 0, 0, "Slow operation detected"},
		{"notice", 0, time.Hour, "Operation took longer than expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.InfoLevel)

			timer := NewTimer("op", log).WithThresholds(tt.notice, tt.slow)
			time.Sleep(time.Millisecond)
			timer.Stop()

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestMeasureDBQuery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	MeasureDBQuery("delete_expired", log)(7)

	assert.Contains(t, buf.String(), `"query":"delete_expired"`)
	assert.Contains(t, buf.String(), `"rows_affected":7`)
}
