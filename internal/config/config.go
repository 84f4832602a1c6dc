// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Directory for the price cache database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Market   *MarketConfig
	Analysis *AnalysisConfig
	Cache    *CacheConfig
}

// MarketConfig controls what is downloaded from Yahoo Finance
type MarketConfig struct {
	Period          string // Yahoo period, e.g. "1y"
	Interval        string // Yahoo interval, e.g. "1wk"; also selects the annualization multiplier
	RiskFreeTicker  string
	RiskFreeDivisor float64  // Quote units per 1.0 of annual rate (^TNX quotes percent)
	RiskFreeRate    *float64 // Fixed annual rate; skips the ticker lookup when set
}

// AnalysisConfig holds defaults for the optimization pipeline
type AnalysisConfig struct {
	FrontierStep  float64
	RollingWindow int
}

// CacheConfig controls the price cache
type CacheConfig struct {
	PriceTTL        time.Duration
	CleanupSchedule string // cron expression with a seconds field
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Always resolve to absolute path
	dataDir := getEnv("TWOSTOCKS_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	riskFree, err := getEnvAsOptionalFloat("RISK_FREE_RATE")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("GO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Market: &MarketConfig{
			Period:          getEnv("PRICE_PERIOD", "1y"),
			Interval:        getEnv("PRICE_INTERVAL", "1wk"),
			RiskFreeTicker:  getEnv("RISK_FREE_TICKER", "^TNX"),
			RiskFreeDivisor: getEnvAsFloat("RISK_FREE_DIVISOR", 100),
			RiskFreeRate:    riskFree,
		},
		Analysis: &AnalysisConfig{
			FrontierStep:  getEnvAsFloat("FRONTIER_STEP", optimization.DefaultFrontierStep),
			RollingWindow: getEnvAsInt("ROLLING_WINDOW", 12),
		},
		Cache: &CacheConfig{
			PriceTTL:        getEnvAsDuration("PRICE_CACHE_TTL", 24*time.Hour),
			CleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "0 0 3 * * *"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot use
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.Market != nil {
		if _, err := optimization.PeriodsPerYear(c.Market.Interval); err != nil {
			return fmt.Errorf("PRICE_INTERVAL: %w", err)
		}
		if c.Market.RiskFreeDivisor <= 0 {
			return fmt.Errorf("RISK_FREE_DIVISOR must be positive, got %v", c.Market.RiskFreeDivisor)
		}
	}

	if c.Analysis != nil {
		if !(c.Analysis.FrontierStep > 0 && c.Analysis.FrontierStep <= 1) {
			return fmt.Errorf("FRONTIER_STEP must be in (0, 1], got %v", c.Analysis.FrontierStep)
		}
		if c.Analysis.RollingWindow < 2 {
			return fmt.Errorf("ROLLING_WINDOW must be at least 2, got %d", c.Analysis.RollingWindow)
		}
	}

	if c.Cache != nil && c.Cache.PriceTTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive, got %s", c.Cache.PriceTTL)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsOptionalFloat returns nil when the variable is unset. A set but
// malformed value is an error rather than a silent fallback.
func getEnvAsOptionalFloat(key string) (*float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return &f, nil
}
