package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TWOSTOCKS_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "1y", cfg.Market.Period)
	assert.Equal(t, "1wk", cfg.Market.Interval)
	assert.Equal(t, "^TNX", cfg.Market.RiskFreeTicker)
	assert.Equal(t, 100.0, cfg.Market.RiskFreeDivisor)
	assert.Nil(t, cfg.Market.RiskFreeRate)
	assert.Equal(t, 0.001, cfg.Analysis.FrontierStep)
	assert.Equal(t, 12, cfg.Analysis.RollingWindow)
	assert.Equal(t, 24*time.Hour, cfg.Cache.PriceTTL)
	assert.Equal(t, "0 0 3 * * *", cfg.Cache.CleanupSchedule)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TWOSTOCKS_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("PRICE_INTERVAL", "1d")
	t.Setenv("RISK_FREE_RATE", "0.045")
	t.Setenv("FRONTIER_STEP", "0.01")
	t.Setenv("PRICE_CACHE_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "1d", cfg.Market.Interval)
	require.NotNil(t, cfg.Market.RiskFreeRate)
	assert.Equal(t, 0.045, *cfg.Market.RiskFreeRate)
	assert.Equal(t, 0.01, cfg.Analysis.FrontierStep)
	assert.Equal(t, 2*time.Hour, cfg.Cache.PriceTTL)
}

func TestLoad_MalformedRiskFreeRate(t *testing.T) {
	t.Setenv("TWOSTOCKS_DATA_DIR", t.TempDir())
	t.Setenv("RISK_FREE_RATE", "four percent")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:     8001,
			Market:   &MarketConfig{Interval: "1wk", RiskFreeDivisor: 100},
			Analysis: &AnalysisConfig{FrontierStep: 0.001, RollingWindow: 12},
			Cache:    &CacheConfig{PriceTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"unknown interval", func(c *Config) { c.Market.Interval = "2h" }, true},
		{"zero divisor", func(c *Config) { c.Market.RiskFreeDivisor = 0 }, true},
		{"zero step", func(c *Config) { c.Analysis.FrontierStep = 0 }, true},
		{"step above one", func(c *Config) { c.Analysis.FrontierStep = 1.5 }, true},
		{"step of one", func(c *Config) { c.Analysis.FrontierStep = 1 }, false},
		{"window too small", func(c *Config) { c.Analysis.RollingWindow = 1 }, true},
		{"non-positive ttl", func(c *Config) { c.Cache.PriceTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
