package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	a := assetStats(0.10, 0.04)
	b := assetStats(0.06, 0.09)

	stats, err := Evaluate(a, b, 0.01, NewPortfolioWeights(0.5), 0.02)
	require.NoError(t, err)

	// 0.25*0.04 + 0.25*0.09 + 2*0.25*0.01
	assert.InDelta(t, 0.08, stats.ExpectedReturn, 1e-12)
	assert.InDelta(t, 0.0375, stats.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(0.0375), stats.StdDev, 1e-12)
	assert.InDelta(t, 0.06/math.Sqrt(0.0375), stats.Sharpe, 1e-12)
}

func TestEvaluate_SingleAssetMatchesAssetStats(t *testing.T) {
	a := assetStats(0.10, 0.04)
	b := assetStats(0.06, 0.09)

	stats, err := Evaluate(a, b, 0.01, NewPortfolioWeights(1), 0)
	require.NoError(t, err)

	assert.InDelta(t, a.MeanReturn, stats.ExpectedReturn, 1e-15)
	assert.InDelta(t, a.Variance, stats.Variance, 1e-15)
	assert.InDelta(t, 0.5, stats.Sharpe, 1e-12)
}

func TestEvaluate_ZeroRisk(t *testing.T) {
	_, err := Evaluate(assetStats(0.05, 0), assetStats(0.03, 0), 0, NewPortfolioWeights(0.5), 0.01)

	var zeroErr *ZeroRiskError
	require.ErrorAs(t, err, &zeroErr)
	assert.InDelta(t, 0.04, zeroErr.ExpectedReturn, 1e-15)
}

func TestEvaluate_NegativeVariance(t *testing.T) {
	// |cov| exceeds sdA*sdB = 0.06
	_, err := Evaluate(assetStats(0.10, 0.04), assetStats(0.06, 0.09), -0.1, NewPortfolioWeights(0.5), 0)

	var negErr *NegativeVarianceError
	require.ErrorAs(t, err, &negErr)
	assert.Less(t, negErr.Variance, 0.0)
}

func TestEvaluate_PerfectHedgeFloorsToZero(t *testing.T) {
	// Perfectly negatively correlated: w1 = sdB / (sdA + sdB) eliminates risk.
	a := assetStats(0.10, 0.04)
	b := assetStats(0.06, 0.09)
	w := NewPortfolioWeights(0.3 / 0.5)

	_, variance, err := portfolioMoments(a, b, -0.06, w.W1, w.W2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, variance, 0.0)
	assert.InDelta(t, 0.0, variance, 1e-15)
}

func TestSharpeRatio(t *testing.T) {
	sr, err := SharpeRatio(0.12, 0.2, 0.02)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sr, 1e-12)

	_, err = SharpeRatio(0.12, 0, 0.02)
	var zeroErr *ZeroRiskError
	assert.ErrorAs(t, err, &zeroErr)
}
