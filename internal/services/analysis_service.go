// Package services provides the application services shared by the CLI and the HTTP server.
package services

import (
	"context"
	"fmt"

	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/rs/zerolog"
)

// PairFetcher supplies aligned market data for a pair of tickers.
type PairFetcher interface {
	FetchPair(ctx context.Context, req marketdata.Request) (*marketdata.PairData, error)
}

// AnalysisDefaults are applied when a request leaves a field unset.
type AnalysisDefaults struct {
	FrontierStep  float64
	RollingWindow int
}

// AnalysisRequest selects a pair and overrides the defaults for one run.
type AnalysisRequest struct {
	marketdata.Request
	FrontierStep float64
	// RollingWindow overrides the default when > 0; a negative value disables diagnostics.
	RollingWindow int
}

// AnalysisService downloads a pair and runs the two-asset analysis on it.
type AnalysisService struct {
	market   PairFetcher
	analyzer *optimization.Analyzer
	defaults AnalysisDefaults
	log      zerolog.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(market PairFetcher, analyzer *optimization.Analyzer, defaults AnalysisDefaults, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		market:   market,
		analyzer: analyzer,
		defaults: defaults,
		log:      log.With().Str("service", "analysis").Logger(),
	}
}

// Run fetches market data for the request and analyzes it.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*optimization.Report, error) {
	if req.TickerA == "" || req.TickerB == "" {
		return nil, fmt.Errorf("two tickers are required")
	}

	pair, err := s.market.FetchPair(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	step := req.FrontierStep
	if step == 0 {
		step = s.defaults.FrontierStep
	}
	window := req.RollingWindow
	if window == 0 {
		window = s.defaults.RollingWindow
	}

	report, err := s.analyzer.Analyze(optimization.Input{
		A:             optimization.AssetInput{Ticker: pair.A.Symbol, Name: pair.A.Name, Prices: pair.PricesA},
		B:             optimization.AssetInput{Ticker: pair.B.Symbol, Name: pair.B.Name, Prices: pair.PricesB},
		Dates:         pair.Dates,
		Interval:      pair.Interval,
		RiskFreeRate:  pair.RiskFreeRate,
		FrontierStep:  step,
		RollingWindow: window,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis of %s and %s: %w", pair.A.Symbol, pair.B.Symbol, err)
	}

	s.log.Info().
		Str("run_id", report.RunID).
		Str("asset_a", pair.A.Symbol).
		Str("asset_b", pair.B.Symbol).
		Float64("mvp_w1", report.MinimumVariance.Weights.W1).
		Float64("tangency_w1", report.Tangency.Weights.W1).
		Msg("Analysis finished")

	return report, nil
}
