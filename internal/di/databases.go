package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the price cache database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// cache.db - Yahoo price histories and quotes (ephemeral, safe to delete)
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	if err := cacheDB.Migrate(); err != nil {
		cacheDB.Close()
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}
	container.CacheDB = cacheDB

	log.Debug().Str("path", cacheDB.Path()).Msg("Cache database ready")

	return container, nil
}
