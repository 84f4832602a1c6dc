package optimization

import "math"

// varianceTolerance is the relative tolerance under which a negative portfolio
// variance is treated as floating-point noise and floored at zero.
const varianceTolerance = 1e-12

// PortfolioStats holds the risk/return profile of a weighted two-asset portfolio.
type PortfolioStats struct {
	ExpectedReturn float64 `json:"expected_return"`
	Variance       float64 `json:"variance"`
	StdDev         float64 `json:"std_dev"`
	Sharpe         float64 `json:"sharpe"`
}

// Evaluate applies weights to the asset statistics:
//
//	E  = w1*meanA + w2*meanB
//	V  = (w1*sdA)^2 + (w2*sdB)^2 + 2*w1*w2*cov
//	SR = (E - rf) / sqrt(V)
func Evaluate(a, b AssetStatistics, cov float64, w PortfolioWeights, rf float64) (PortfolioStats, error) {
	expected, variance, err := portfolioMoments(a, b, cov, w.W1, w.W2)
	if err != nil {
		return PortfolioStats{}, err
	}

	sd := math.Sqrt(variance)
	if sd == 0 {
		return PortfolioStats{}, &ZeroRiskError{ExpectedReturn: expected}
	}

	return PortfolioStats{
		ExpectedReturn: expected,
		Variance:       variance,
		StdDev:         sd,
		Sharpe:         (expected - rf) / sd,
	}, nil
}

// SharpeRatio returns (expectedReturn - rf) / stdDev, failing for a riskless position.
func SharpeRatio(expectedReturn, stdDev, rf float64) (float64, error) {
	if stdDev == 0 {
		return 0, &ZeroRiskError{ExpectedReturn: expectedReturn}
	}
	return (expectedReturn - rf) / stdDev, nil
}

func portfolioMoments(a, b AssetStatistics, cov, w1, w2 float64) (float64, float64, error) {
	expected := w1*a.MeanReturn + w2*b.MeanReturn

	x := w1 * a.StdDev
	y := w2 * b.StdDev
	variance := x*x + y*y + 2*w1*w2*cov

	if variance < 0 {
		if variance < -varianceTolerance*varianceScale(a, b, cov) {
			return 0, 0, &NegativeVarianceError{Variance: variance}
		}
		variance = 0
	}

	return expected, variance, nil
}

func varianceScale(a, b AssetStatistics, cov float64) float64 {
	return math.Max(a.Variance+b.Variance+2*math.Abs(cov), math.SmallestNonzeroFloat64)
}
