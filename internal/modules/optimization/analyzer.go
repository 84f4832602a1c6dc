package optimization

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/twostocks/internal/utils"
	"github.com/aristath/twostocks/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssetInput is one side of the pair: aligned prices plus display metadata.
type AssetInput struct {
	Ticker string
	Name   string
	Prices []float64
}

// Input is everything the analyzer needs for one run.
type Input struct {
	A AssetInput
	B AssetInput
	// Dates are the observation dates shared by both price series. Optional.
	Dates []time.Time

	Interval string
	// PeriodsPerYear overrides the multiplier derived from Interval when > 0.
	PeriodsPerYear int
	RiskFreeRate   float64
	// FrontierStep defaults to DefaultFrontierStep when zero.
	FrontierStep float64
	// RollingWindow enables the rolling diagnostics when >= 2.
	RollingWindow int
}

// AssetReport is the per-asset block of a report.
type AssetReport struct {
	Ticker string          `json:"ticker"`
	Name   string          `json:"name,omitempty"`
	Stats  AssetStatistics `json:"stats"`
	// Sharpe is nil for a riskless asset.
	Sharpe *float64 `json:"sharpe"`
}

// PortfolioReport is an optimal allocation with its risk/return profile.
type PortfolioReport struct {
	Weights        PortfolioWeights `json:"weights"`
	ExpectedReturn float64          `json:"expected_return"`
	Variance       float64          `json:"variance"`
	StdDev         float64          `json:"std_dev"`
	// Sharpe is nil when the allocation carries no risk.
	Sharpe *float64 `json:"sharpe"`
}

// Diagnostics holds rolling statistics over a fixed window of returns.
type Diagnostics struct {
	Window             int         `json:"window"`
	WindowEnds         []time.Time `json:"window_ends,omitempty"`
	RollingCorrelation []float64   `json:"rolling_correlation"`
	RollingVolatilityA []float64   `json:"rolling_volatility_a"`
	RollingVolatilityB []float64   `json:"rolling_volatility_b"`
}

// Report is the full result of one analysis run. It is never persisted.
type Report struct {
	RunID          string     `json:"run_id"`
	GeneratedAt    time.Time  `json:"generated_at"`
	Interval       string     `json:"interval,omitempty"`
	PeriodsPerYear int        `json:"periods_per_year"`
	RiskFreeRate   float64    `json:"risk_free_rate"`
	Observations   int        `json:"observations"`
	Start          *time.Time `json:"start,omitempty"`
	End            *time.Time `json:"end,omitempty"`

	Assets          [2]AssetReport  `json:"assets"`
	Pair            PairStatistics  `json:"pair"`
	MinimumVariance PortfolioReport `json:"minimum_variance"`
	Tangency        PortfolioReport `json:"tangency"`

	FrontierStep   float64      `json:"frontier_step"`
	FrontierPoints int          `json:"frontier_points"`
	Frontier       Frontier     `json:"-"`
	Diagnostics    *Diagnostics `json:"diagnostics,omitempty"`
}

// Analyzer runs the two-asset pipeline:
// prices -> returns -> statistics -> weight solves -> evaluation -> frontier.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze computes the report for one asset pair. Core failures are returned
// wrapped, so callers can still match them with errors.As.
func (a *Analyzer) Analyze(in Input) (*Report, error) {
	timer := utils.NewTimer("two_asset_analysis", a.log)
	defer timer.Stop()

	k := in.PeriodsPerYear
	if k == 0 {
		var err error
		k, err = PeriodsPerYear(in.Interval)
		if err != nil {
			return nil, err
		}
	}

	step := in.FrontierStep
	if step == 0 {
		step = DefaultFrontierStep
	}

	if len(in.Dates) > 0 && (len(in.Dates) != len(in.A.Prices) || len(in.Dates) != len(in.B.Prices)) {
		return nil, fmt.Errorf("observation dates do not match prices: %d dates, %d and %d prices",
			len(in.Dates), len(in.A.Prices), len(in.B.Prices))
	}

	returnsA, err := NewReturnSeries(in.A.Prices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", in.A.Ticker, err)
	}
	returnsB, err := NewReturnSeries(in.B.Prices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", in.B.Ticker, err)
	}

	statsA, err := ComputeAssetStats(returnsA, k)
	if err != nil {
		return nil, fmt.Errorf("%s statistics: %w", in.A.Ticker, err)
	}
	statsB, err := ComputeAssetStats(returnsB, k)
	if err != nil {
		return nil, fmt.Errorf("%s statistics: %w", in.B.Ticker, err)
	}

	pair, err := ComputePairStats(returnsA, returnsB, k)
	if err != nil {
		return nil, fmt.Errorf("pair statistics: %w", err)
	}

	mvp, err := a.solve(statsA, statsB, pair.Covariance, in.RiskFreeRate, func() (PortfolioWeights, error) {
		return MinimumVarianceWeights(statsA, statsB, pair.Covariance)
	})
	if err != nil {
		return nil, err
	}
	tangency, err := a.solve(statsA, statsB, pair.Covariance, in.RiskFreeRate, func() (PortfolioWeights, error) {
		return TangencyWeights(statsA, statsB, pair.Covariance, in.RiskFreeRate)
	})
	if err != nil {
		return nil, err
	}

	frontier, err := GenerateFrontier(statsA, statsB, pair.Covariance, step)
	if err != nil {
		return nil, fmt.Errorf("frontier: %w", err)
	}

	report := &Report{
		RunID:          uuid.New().String(),
		GeneratedAt:    time.Now().UTC(),
		Interval:       in.Interval,
		PeriodsPerYear: k,
		RiskFreeRate:   in.RiskFreeRate,
		Observations:   returnsA.Len(),
		Assets: [2]AssetReport{
			assetReport(in.A, statsA, in.RiskFreeRate),
			assetReport(in.B, statsB, in.RiskFreeRate),
		},
		Pair:            pair,
		MinimumVariance: mvp,
		Tangency:        tangency,
		FrontierStep:    step,
		FrontierPoints:  frontier.Len(),
		Frontier:        frontier,
	}

	if len(in.Dates) > 0 {
		start, end := in.Dates[0], in.Dates[len(in.Dates)-1]
		report.Start = &start
		report.End = &end
	}

	if in.RollingWindow >= 2 && returnsA.Len() >= in.RollingWindow {
		report.Diagnostics = diagnostics(returnsA.Values(), returnsB.Values(), in.Dates, in.RollingWindow, k)
	}

	a.log.Debug().
		Str("run_id", report.RunID).
		Str("asset_a", in.A.Ticker).
		Str("asset_b", in.B.Ticker).
		Int("observations", report.Observations).
		Float64("mvp_w1", mvp.Weights.W1).
		Float64("tangency_w1", tangency.Weights.W1).
		Msg("Analysis complete")

	return report, nil
}

func (a *Analyzer) solve(statsA, statsB AssetStatistics, cov, rf float64, weights func() (PortfolioWeights, error)) (PortfolioReport, error) {
	w, err := weights()
	if err != nil {
		return PortfolioReport{}, err
	}
	if w.Clamped {
		a.log.Debug().
			Float64("natural_w1", w.Natural).
			Float64("w1", w.W1).
			Msg("Short position clamped")
	}

	stats, err := Evaluate(statsA, statsB, cov, w, rf)
	var zeroRisk *ZeroRiskError
	if errors.As(err, &zeroRisk) {
		return PortfolioReport{Weights: w, ExpectedReturn: zeroRisk.ExpectedReturn}, nil
	}
	if err != nil {
		return PortfolioReport{}, err
	}

	sharpe := stats.Sharpe
	return PortfolioReport{
		Weights:        w,
		ExpectedReturn: stats.ExpectedReturn,
		Variance:       stats.Variance,
		StdDev:         stats.StdDev,
		Sharpe:         &sharpe,
	}, nil
}

func assetReport(in AssetInput, stats AssetStatistics, rf float64) AssetReport {
	report := AssetReport{Ticker: in.Ticker, Name: in.Name, Stats: stats}
	if sharpe, err := SharpeRatio(stats.MeanReturn, stats.StdDev, rf); err == nil {
		report.Sharpe = &sharpe
	}
	return report
}

func diagnostics(returnsA, returnsB []float64, dates []time.Time, window, k int) *Diagnostics {
	d := &Diagnostics{
		Window:             window,
		RollingCorrelation: formulas.RollingCorrelation(returnsA, returnsB, window),
		RollingVolatilityA: formulas.RollingVolatility(returnsA, window, k),
		RollingVolatilityB: formulas.RollingVolatility(returnsB, window, k),
	}

	// Return i ends on dates[i+1], so a window starting at return j ends on dates[j+window].
	if len(dates) == len(returnsA)+1 {
		for j := range d.RollingCorrelation {
			d.WindowEnds = append(d.WindowEnds, dates[j+window])
		}
	}
	return d
}
