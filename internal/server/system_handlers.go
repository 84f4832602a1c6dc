package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Job is a background job that can also be triggered over HTTP.
type Job interface {
	Run() error
	Name() string
}

// SystemHandlers handles system monitoring and maintenance endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	cacheDB     *database.DB
	cache       *clientdata.Repository

	mu               sync.RWMutex
	cacheCleanupJob  Job
	walCheckpointJob Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, cacheDB *database.DB, cache *clientdata.Repository) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		startupTime: time.Now(),
		cacheDB:     cacheDB,
		cache:       cache,
	}
}

// SetJobs registers the maintenance jobs
func (h *SystemHandlers) SetJobs(cacheCleanup, walCheckpoint Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheCleanupJob = cacheCleanup
	h.walCheckpointJob = walCheckpoint
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string           `json:"status"` // "healthy" or "degraded"
	UptimeSeconds int64            `json:"uptime_seconds"`
	Goroutines    int              `json:"goroutines"`
	CPUPercent    float64          `json:"cpu_percent"`
	MemoryPercent float64          `json:"memory_percent"`
	CacheDB       *database.Stats  `json:"cache_db,omitempty"`
	CacheEntries  map[string]int64 `json:"cache_entries,omitempty"`
}

// GetSystemStatusSnapshot collects the status. Partial results are returned
// with the first error encountered.
func (h *SystemHandlers) GetSystemStatusSnapshot() (SystemStatusResponse, error) {
	cpuPercent, memPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
	}

	var firstErr error
	if h.cacheDB != nil {
		stats, err := h.cacheDB.GetStats()
		if err != nil {
			response.Status = "degraded"
			firstErr = err
		} else {
			response.CacheDB = stats
		}
	}

	if h.cache != nil {
		counts, err := h.cache.Count()
		if err != nil {
			response.Status = "degraded"
			if firstErr == nil {
				firstErr = err
			}
		} else {
			response.CacheEntries = counts
		}
	}

	return response, firstErr
}

// HandleSystemStatus returns the system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response, err := h.GetSystemStatusSnapshot()
	if err != nil {
		h.log.Warn().Err(err).Msg("System status collected with warnings")
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerCacheCleanup purges expired cache entries immediately
// POST /api/jobs/cache-cleanup
func (h *SystemHandlers) HandleTriggerCacheCleanup(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	job := h.cacheCleanupJob
	h.mu.RUnlock()
	h.triggerJob(w, job)
}

// HandleTriggerWALCheckpoint checkpoints the cache database immediately
// POST /api/jobs/wal-checkpoint
func (h *SystemHandlers) HandleTriggerWALCheckpoint(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	job := h.walCheckpointJob
	h.mu.RUnlock()
	h.triggerJob(w, job)
}

func (h *SystemHandlers) triggerJob(w http.ResponseWriter, job Job) {
	if job == nil {
		h.log.Warn().Msg("Job not registered yet")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Job not registered",
		})
		return
	}

	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", job.Name()).Msg("Triggered job failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"job":     job.Name(),
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"job":    job.Name(),
	})
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
