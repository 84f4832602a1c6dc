package optimization

import "math"

// ReturnSeries is an ordered sequence of periodic simple returns.
// It is immutable once built.
type ReturnSeries struct {
	values []float64
}

// NewReturnSeries converts N prices into N-1 simple returns:
// return[i] = (price[i+1] - price[i]) / price[i].
//
// Gaps are the caller's responsibility; prices are not interpolated.
func NewReturnSeries(prices []float64) (ReturnSeries, error) {
	if len(prices) < 2 {
		return ReturnSeries{}, &InsufficientDataError{Have: len(prices), Need: 2}
	}

	for i, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return ReturnSeries{}, &InvalidPriceError{Index: i, Price: p}
		}
	}

	values := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		values[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}

	return ReturnSeries{values: values}, nil
}

// ReturnSeriesOf wraps already-computed returns (e.g. from another source).
// The slice is copied.
func ReturnSeriesOf(returns []float64) ReturnSeries {
	values := make([]float64, len(returns))
	copy(values, returns)
	return ReturnSeries{values: values}
}

// Len returns the number of returns.
func (r ReturnSeries) Len() int {
	return len(r.values)
}

// Values returns a copy of the returns.
func (r ReturnSeries) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}
