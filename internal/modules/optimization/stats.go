package optimization

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// AssetStatistics holds annualized return statistics for one asset.
type AssetStatistics struct {
	MeanReturn float64 `json:"mean_return"`
	Variance   float64 `json:"variance"`
	StdDev     float64 `json:"std_dev"`
	// Degenerate is set when the variance is zero (e.g. a riskless proxy asset).
	Degenerate bool `json:"degenerate"`
}

// PairStatistics holds the co-movement of two assets.
// Covariance is annualized; correlation is scale-invariant.
type PairStatistics struct {
	Covariance  float64 `json:"covariance"`
	Correlation float64 `json:"correlation"`
	// Degenerate is set when either series has zero variance. Correlation is
	// undefined in that case and reported as 0.
	Degenerate bool `json:"degenerate"`
}

// ComputeAssetStats computes the annualized mean, sample variance (N-1) and
// standard deviation of a return series.
func ComputeAssetStats(returns ReturnSeries, periodsPerYear int) (AssetStatistics, error) {
	if periodsPerYear < 1 {
		return AssetStatistics{}, &InvalidAnnualizationError{PeriodsPerYear: periodsPerYear}
	}
	if returns.Len() == 0 {
		return AssetStatistics{}, &EmptySeriesError{}
	}
	if returns.Len() < 2 {
		return AssetStatistics{}, &InsufficientDataError{Have: returns.Len(), Need: 2}
	}

	k := float64(periodsPerYear)
	mean, variance := stat.MeanVariance(returns.values, nil)

	annualVar := variance * k
	if annualVar < 0 {
		annualVar = 0
	}

	return AssetStatistics{
		MeanReturn: mean * k,
		Variance:   annualVar,
		StdDev:     math.Sqrt(annualVar),
		Degenerate: annualVar == 0,
	}, nil
}

// ComputePairStats computes the annualized sample covariance and the Pearson
// correlation of two aligned return series. Alignment by date is the caller's job.
func ComputePairStats(a, b ReturnSeries, periodsPerYear int) (PairStatistics, error) {
	if periodsPerYear < 1 {
		return PairStatistics{}, &InvalidAnnualizationError{PeriodsPerYear: periodsPerYear}
	}
	if a.Len() == 0 {
		return PairStatistics{}, &EmptySeriesError{Name: "a"}
	}
	if b.Len() == 0 {
		return PairStatistics{}, &EmptySeriesError{Name: "b"}
	}
	if a.Len() != b.Len() || a.Len() < 2 {
		return PairStatistics{}, &LengthMismatchError{LenA: a.Len(), LenB: b.Len()}
	}

	cov := stat.Covariance(a.values, b.values, nil)
	varA := stat.Variance(a.values, nil)
	varB := stat.Variance(b.values, nil)

	pair := PairStatistics{
		Covariance: cov * float64(periodsPerYear),
	}
	if varA == 0 || varB == 0 {
		pair.Degenerate = true
		return pair, nil
	}

	pair.Correlation = stat.Correlation(a.values, b.values, nil)
	return pair, nil
}
