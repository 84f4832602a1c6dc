package optimization

import "math"

// Solve names used in DegenerateOptimizationError.
const (
	SolveMinimumVariance = "minimum-variance"
	SolveTangency        = "tangency"
)

// denominatorEpsilon scales the zero-denominator check to the size of the inputs.
const denominatorEpsilon = 1e-15

// PortfolioWeights is a two-asset allocation. W2 is always 1 - W1.
type PortfolioWeights struct {
	W1 float64 `json:"w1"`
	W2 float64 `json:"w2"`
	// Clamped is set when the no-short-selling mandate moved the natural solution.
	Clamped bool `json:"clamped"`
	// Natural is the unclamped closed-form W1.
	Natural float64 `json:"natural_w1"`
}

// NewPortfolioWeights builds weights from w1 under the no-short-selling mandate:
// w1 outside [0, 1] is clamped to the nearer bound and w2 = 1 - w1.
func NewPortfolioWeights(w1 float64) PortfolioWeights {
	natural := w1
	clamped := false
	if w1 > 1 {
		w1 = 1
		clamped = true
	} else if w1 < 0 {
		w1 = 0
		clamped = true
	}
	return PortfolioWeights{
		W1:      w1,
		W2:      1 - w1,
		Clamped: clamped,
		Natural: natural,
	}
}

// MinimumVarianceWeights solves for the allocation minimizing
// var1*w1^2 + var2*(1-w1)^2 + 2*cov*w1*(1-w1):
//
//	w1 = (var2 - cov) / (var1 + var2 - 2*cov)
func MinimumVarianceWeights(a, b AssetStatistics, cov float64) (PortfolioWeights, error) {
	num := b.Variance - cov
	den := a.Variance + b.Variance - 2*cov

	if isZeroDenominator(den, a.Variance, b.Variance, cov) {
		return PortfolioWeights{}, &DegenerateOptimizationError{Solve: SolveMinimumVariance, Denominator: den}
	}

	return NewPortfolioWeights(num / den), nil
}

// TangencyWeights solves for the maximum-Sharpe allocation against risk-free rate rf:
//
//	rp1 = mean1 - rf; rp2 = mean2 - rf
//	w1 = (rp1*var2 - rp2*cov) / (rp1*var2 + rp2*var1 - (rp1+rp2)*cov)
func TangencyWeights(a, b AssetStatistics, cov, rf float64) (PortfolioWeights, error) {
	rp1 := a.MeanReturn - rf
	rp2 := b.MeanReturn - rf

	num := rp1*b.Variance - rp2*cov
	den := rp1*b.Variance + rp2*a.Variance - (rp1+rp2)*cov

	if isZeroDenominator(den, rp1*b.Variance, rp2*a.Variance, (rp1+rp2)*cov) {
		return PortfolioWeights{}, &DegenerateOptimizationError{Solve: SolveTangency, Denominator: den}
	}

	return NewPortfolioWeights(num / den), nil
}

// isZeroDenominator reports whether den is zero relative to the magnitude of its terms.
func isZeroDenominator(den float64, terms ...float64) bool {
	scale := 0.0
	for _, t := range terms {
		scale = math.Max(scale, math.Abs(t))
	}
	return math.Abs(den) <= denominatorEpsilon*scale || den == 0
}
