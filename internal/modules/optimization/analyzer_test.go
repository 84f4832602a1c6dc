package optimization

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() Input {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 9)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, 7*i)
	}

	return Input{
		A: AssetInput{
			Ticker: "AAA",
			Name:   "Alpha Corp",
			Prices: []float64{100, 102, 101, 105, 107, 106, 110, 108, 112},
		},
		B: AssetInput{
			Ticker: "BBB",
			Name:   "Beta Inc",
			Prices: []float64{50, 49, 51, 52, 50, 53, 54, 53, 55},
		},
		Dates:        dates,
		Interval:     "1wk",
		RiskFreeRate: 0.02,
	}
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestAnalyzer_Analyze(t *testing.T) {
	in := testInput()
	report, err := newTestAnalyzer().Analyze(in)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 52, report.PeriodsPerYear)
	assert.Equal(t, 8, report.Observations)
	assert.Equal(t, DefaultFrontierStep, report.FrontierStep)
	assert.Equal(t, 1001, report.FrontierPoints)
	require.NotNil(t, report.Start)
	require.NotNil(t, report.End)
	assert.Equal(t, in.Dates[0], *report.Start)
	assert.Equal(t, in.Dates[8], *report.End)
	assert.Nil(t, report.Diagnostics)

	assert.Equal(t, "AAA", report.Assets[0].Ticker)
	assert.Equal(t, "Beta Inc", report.Assets[1].Name)
	require.NotNil(t, report.Assets[0].Sharpe)
	require.NotNil(t, report.Assets[1].Sharpe)

	// The report must agree with the individual pipeline steps.
	returnsA, err := NewReturnSeries(in.A.Prices)
	require.NoError(t, err)
	returnsB, err := NewReturnSeries(in.B.Prices)
	require.NoError(t, err)
	statsA, err := ComputeAssetStats(returnsA, 52)
	require.NoError(t, err)
	statsB, err := ComputeAssetStats(returnsB, 52)
	require.NoError(t, err)
	pair, err := ComputePairStats(returnsA, returnsB, 52)
	require.NoError(t, err)

	assert.Equal(t, statsA, report.Assets[0].Stats)
	assert.Equal(t, statsB, report.Assets[1].Stats)
	assert.Equal(t, pair, report.Pair)

	mvp, err := MinimumVarianceWeights(statsA, statsB, pair.Covariance)
	require.NoError(t, err)
	tangency, err := TangencyWeights(statsA, statsB, pair.Covariance, 0.02)
	require.NoError(t, err)
	assert.Equal(t, mvp, report.MinimumVariance.Weights)
	assert.Equal(t, tangency, report.Tangency.Weights)

	for _, p := range []PortfolioReport{report.MinimumVariance, report.Tangency} {
		assert.InDelta(t, 1.0, p.Weights.W1+p.Weights.W2, 1e-15)
		require.NotNil(t, p.Sharpe)
	}
	assert.GreaterOrEqual(t, *report.Tangency.Sharpe, *report.MinimumVariance.Sharpe-1e-12)

	for point := range report.Frontier.All() {
		assert.LessOrEqual(t, report.MinimumVariance.Variance, point.Variance+1e-15)
	}
}

func TestAnalyzer_Diagnostics(t *testing.T) {
	in := testInput()
	in.RollingWindow = 4

	report, err := newTestAnalyzer().Analyze(in)
	require.NoError(t, err)
	require.NotNil(t, report.Diagnostics)

	d := report.Diagnostics
	assert.Equal(t, 4, d.Window)
	assert.Len(t, d.RollingCorrelation, 5)
	assert.Len(t, d.RollingVolatilityA, 5)
	assert.Len(t, d.RollingVolatilityB, 5)
	require.Len(t, d.WindowEnds, 5)
	assert.Equal(t, in.Dates[4], d.WindowEnds[0])
	assert.Equal(t, in.Dates[8], d.WindowEnds[4])
}

func TestAnalyzer_RisklessAsset(t *testing.T) {
	in := testInput()
	in.B.Prices = []float64{100, 100, 100, 100, 100, 100, 100, 100, 100}

	report, err := newTestAnalyzer().Analyze(in)
	require.NoError(t, err)

	assert.True(t, report.Assets[1].Stats.Degenerate)
	assert.Nil(t, report.Assets[1].Sharpe)
	assert.True(t, report.Pair.Degenerate)

	// All weight goes to the riskless asset, which has no Sharpe ratio.
	assert.Equal(t, 0.0, report.MinimumVariance.Weights.W1)
	assert.Equal(t, 0.0, report.MinimumVariance.StdDev)
	assert.Nil(t, report.MinimumVariance.Sharpe)
}

func TestAnalyzer_Errors(t *testing.T) {
	t.Run("unknown interval", func(t *testing.T) {
		in := testInput()
		in.Interval = "1h"
		_, err := newTestAnalyzer().Analyze(in)
		assert.Error(t, err)
	})

	t.Run("explicit periods per year wins", func(t *testing.T) {
		in := testInput()
		in.Interval = "1h"
		in.PeriodsPerYear = 12
		report, err := newTestAnalyzer().Analyze(in)
		require.NoError(t, err)
		assert.Equal(t, 12, report.PeriodsPerYear)
	})

	t.Run("invalid price", func(t *testing.T) {
		in := testInput()
		in.A.Prices[3] = 0
		_, err := newTestAnalyzer().Analyze(in)
		var priceErr *InvalidPriceError
		require.ErrorAs(t, err, &priceErr)
		assert.Equal(t, 3, priceErr.Index)
		assert.Contains(t, err.Error(), "AAA")
	})

	t.Run("misaligned prices", func(t *testing.T) {
		in := testInput()
		in.Dates = nil
		in.B.Prices = in.B.Prices[:5]
		_, err := newTestAnalyzer().Analyze(in)
		var lenErr *LengthMismatchError
		assert.ErrorAs(t, err, &lenErr)
	})

	t.Run("dates do not match prices", func(t *testing.T) {
		in := testInput()
		in.Dates = in.Dates[:3]
		_, err := newTestAnalyzer().Analyze(in)
		assert.Error(t, err)
	})

	t.Run("identical assets", func(t *testing.T) {
		in := testInput()
		in.B.Prices = append([]float64(nil), in.A.Prices...)
		_, err := newTestAnalyzer().Analyze(in)
		var degErr *DegenerateOptimizationError
		assert.ErrorAs(t, err, &degErr)
	})

	t.Run("invalid step", func(t *testing.T) {
		in := testInput()
		in.FrontierStep = 2
		_, err := newTestAnalyzer().Analyze(in)
		var stepErr *InvalidStepError
		assert.ErrorAs(t, err, &stepErr)
	})
}
