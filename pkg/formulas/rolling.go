package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RollingCorrelation calculates the Pearson correlation of two aligned series
// over a sliding window.
//
// The result has len(a)-window+1 values; value i covers a[i:i+window].
// Returns nil when the series differ in length or are shorter than the window.
func RollingCorrelation(a, b []float64, window int) []float64 {
	if window < 2 || len(a) != len(b) || len(a) < window {
		return nil
	}

	correl := talib.Correl(a, b, window)
	return trimLookback(correl, window)
}

// RollingVolatility calculates the annualized volatility of a return series over a
// sliding window: population std dev of the window x sqrt(periodsPerYear).
//
// Same output shape as RollingCorrelation.
func RollingVolatility(returns []float64, window, periodsPerYear int) []float64 {
	if window < 2 || len(returns) < window || periodsPerYear < 1 {
		return nil
	}

	sd := talib.StdDev(returns, window, 1.0)
	out := trimLookback(sd, window)

	scale := math.Sqrt(float64(periodsPerYear))
	for i := range out {
		out[i] *= scale
	}
	return out
}

// trimLookback drops the leading values talib leaves unset before the first full window.
func trimLookback(values []float64, window int) []float64 {
	lookback := window - 1
	if len(values) <= lookback {
		return nil
	}
	out := make([]float64, len(values)-lookback)
	copy(out, values[lookback:])
	for i, v := range out {
		if isNaN(v) {
			out[i] = 0
		}
	}
	return out
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
