package optimization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFrontier_Endpoints(t *testing.T) {
	a := assetStats(0.10, 0.04)
	b := assetStats(0.06, 0.09)

	tests := []struct {
		step float64
		len  int
	}{
		{0.001, 1001},
		{0.1, 11},
		{0.3, 5},
		{0.5, 3},
		{1, 2},
	}

	for _, tt := range tests {
		frontier, err := GenerateFrontier(a, b, 0.01, tt.step)
		require.NoError(t, err)

		points := frontier.Points()
		require.Len(t, points, tt.len, "step %v", tt.step)
		assert.Equal(t, tt.len, frontier.Len())

		first, last := points[0], points[len(points)-1]
		assert.Equal(t, 0.0, first.W1)
		assert.Equal(t, 1.0, first.W2)
		assert.InDelta(t, b.Variance, first.Variance, 1e-15)
		assert.Equal(t, 1.0, last.W1)
		assert.Equal(t, 0.0, last.W2)
		assert.InDelta(t, a.MeanReturn, last.ExpectedReturn, 1e-15)

		for i := 1; i < len(points); i++ {
			assert.Greater(t, points[i].W1, points[i-1].W1)
			assert.InDelta(t, 1.0, points[i].W1+points[i].W2, 1e-15)
			assert.InDelta(t, math.Sqrt(points[i].Variance), points[i].StdDev, 1e-15)
		}
	}
}

func TestGenerateFrontier_Restartable(t *testing.T) {
	frontier, err := GenerateFrontier(assetStats(0.10, 0.04), assetStats(0.06, 0.09), 0.01, 0.01)
	require.NoError(t, err)

	first := frontier.Points()
	second := frontier.Points()
	assert.Equal(t, first, second)

	again, err := GenerateFrontier(assetStats(0.10, 0.04), assetStats(0.06, 0.09), 0.01, 0.01)
	require.NoError(t, err)
	assert.Equal(t, first, again.Points())
}

func TestGenerateFrontier_EarlyBreak(t *testing.T) {
	frontier, err := GenerateFrontier(assetStats(0.10, 0.04), assetStats(0.06, 0.09), 0.01, 0.1)
	require.NoError(t, err)

	count := 0
	for range frontier.All() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
	assert.Len(t, frontier.Points(), 11)
}

func TestGenerateFrontier_InvalidStep(t *testing.T) {
	for _, step := range []float64{0, -0.1, 1.5, math.NaN(), math.Inf(1)} {
		_, err := GenerateFrontier(assetStats(0.10, 0.04), assetStats(0.06, 0.09), 0.01, step)
		var stepErr *InvalidStepError
		assert.ErrorAs(t, err, &stepErr, "step %v", step)
	}
}

func TestGenerateFrontier_InconsistentCovariance(t *testing.T) {
	_, err := GenerateFrontier(assetStats(0.10, 0.04), assetStats(0.06, 0.09), -0.1, 0.01)

	var negErr *NegativeVarianceError
	assert.ErrorAs(t, err, &negErr)
}

func TestGenerateFrontier_MinimumVarianceIsLowest(t *testing.T) {
	a := assetStats(0.10, 0.04)
	b := assetStats(0.06, 0.09)
	cov := 0.01

	mvp, err := MinimumVarianceWeights(a, b, cov)
	require.NoError(t, err)
	mvpStats, err := Evaluate(a, b, cov, mvp, 0.02)
	require.NoError(t, err)

	frontier, err := GenerateFrontier(a, b, cov, 0.001)
	require.NoError(t, err)

	for p := range frontier.All() {
		stats, err := Evaluate(a, b, cov, NewPortfolioWeights(p.W1), 0.02)
		require.NoError(t, err)
		assert.LessOrEqual(t, mvpStats.Variance, stats.Variance+1e-15, "w1=%v", p.W1)
		assert.InDelta(t, p.Variance, stats.Variance, 1e-15)
	}
}
