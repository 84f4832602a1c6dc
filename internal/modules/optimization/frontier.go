package optimization

import (
	"iter"
	"math"
)

// DefaultFrontierStep is the weight increment used when none is configured.
const DefaultFrontierStep = 0.001

// endpointEpsilon absorbs the accumulated error of i*step near 1.
const endpointEpsilon = 1e-9

// FrontierPoint is one row of the investment opportunity set.
type FrontierPoint struct {
	W1             float64 `json:"w1"`
	W2             float64 `json:"w2"`
	ExpectedReturn float64 `json:"expected_return"`
	Variance       float64 `json:"variance"`
	StdDev         float64 `json:"std_dev"`
}

// Frontier is the discretized risk/return curve obtained by sweeping the
// weight of asset 1 from 0 to 1. It is immutable and can be iterated any
// number of times with identical results.
type Frontier struct {
	a, b AssetStatistics
	cov  float64
	step float64
	n    int // points strictly below 1; the endpoint W1 = 1 follows them
}

// GenerateFrontier prepares the frontier for w1 = 0, step, 2*step, ... and a
// final point clamped to exactly w1 = 1. No point is computed until iteration.
func GenerateFrontier(a, b AssetStatistics, cov, step float64) (Frontier, error) {
	if !(step > 0 && step <= 1) {
		return Frontier{}, &InvalidStepError{Step: step}
	}

	// Variance is quadratic in w1; reject inputs whose minimum over [0,1] is negative
	// so that iteration itself cannot fail.
	if den := a.Variance + b.Variance - 2*cov; den > 0 {
		w := math.Min(math.Max((b.Variance-cov)/den, 0), 1)
		if _, _, err := portfolioMoments(a, b, cov, w, 1-w); err != nil {
			return Frontier{}, err
		}
	}

	limit := 1 - endpointEpsilon
	n := int(math.Ceil(limit / step))
	for n > 0 && float64(n-1)*step >= limit {
		n--
	}
	for float64(n)*step < limit {
		n++
	}

	return Frontier{a: a, b: b, cov: cov, step: step, n: n}, nil
}

// Len returns the number of points, endpoint included.
func (f Frontier) Len() int {
	return f.n + 1
}

// Step returns the weight increment.
func (f Frontier) Step() float64 {
	return f.step
}

// All yields the frontier points in increasing w1 order.
func (f Frontier) All() iter.Seq[FrontierPoint] {
	return func(yield func(FrontierPoint) bool) {
		for i := 0; i < f.n; i++ {
			if !yield(f.pointAt(float64(i) * f.step)) {
				return
			}
		}
		yield(f.pointAt(1))
	}
}

// Points materializes the frontier.
func (f Frontier) Points() []FrontierPoint {
	points := make([]FrontierPoint, 0, f.Len())
	for p := range f.All() {
		points = append(points, p)
	}
	return points
}

func (f Frontier) pointAt(w1 float64) FrontierPoint {
	w2 := 1 - w1
	// Inputs were validated in GenerateFrontier.
	expected, variance, _ := portfolioMoments(f.a, f.b, f.cov, w1, w2)
	return FrontierPoint{
		W1:             w1,
		W2:             w2,
		ExpectedReturn: expected,
		Variance:       variance,
		StdDev:         math.Sqrt(variance),
	}
}
