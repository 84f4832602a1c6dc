// Package di provides dependency injection wiring shared by the CLI and the server.
package di

import (
	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/clients/yahoo"
	"github.com/aristath/twostocks/internal/database"
	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/aristath/twostocks/internal/scheduler"
	"github.com/aristath/twostocks/internal/services"
)

// Container holds all dependencies for the application.
type Container struct {
	// Databases
	CacheDB *database.DB

	// Repositories
	CacheRepo *clientdata.Repository

	// Clients
	YahooClient *yahoo.NativeClient

	// Services
	MarketDataService *marketdata.Service
	Analyzer          *optimization.Analyzer
	AnalysisService   *services.AnalysisService
	ChartsService     *charts.Service
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.CacheDB == nil {
		return nil
	}
	return c.CacheDB.Close()
}

// JobInstances holds the background jobs, for scheduling and manual triggering.
type JobInstances struct {
	CacheCleanup  *clientdata.CleanupJob
	WALCheckpoint *scheduler.WALCheckpointJob
}
