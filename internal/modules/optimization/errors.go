package optimization

import "fmt"

// InsufficientDataError is returned when a series is too short for the requested statistic.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d observations, need at least %d", e.Have, e.Need)
}

// InvalidPriceError is returned when a price is non-positive or not finite.
type InvalidPriceError struct {
	Index int
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %v at index %d: prices must be positive and finite", e.Price, e.Index)
}

// EmptySeriesError is returned when a return series has no observations.
type EmptySeriesError struct {
	Name string
}

func (e *EmptySeriesError) Error() string {
	if e.Name == "" {
		return "empty return series"
	}
	return fmt.Sprintf("empty return series %q", e.Name)
}

// LengthMismatchError is returned when two return series cannot be paired.
type LengthMismatchError struct {
	LenA int
	LenB int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("return series length mismatch: %d vs %d (need equal lengths of at least 2)", e.LenA, e.LenB)
}

// InvalidAnnualizationError is returned for a non-positive periods-per-year multiplier.
type InvalidAnnualizationError struct {
	PeriodsPerYear int
}

func (e *InvalidAnnualizationError) Error() string {
	return fmt.Sprintf("invalid periods per year: %d", e.PeriodsPerYear)
}

// DegenerateOptimizationError is returned when a closed-form solve has a zero denominator,
// i.e. the two assets have perfectly collinear risk contributions.
type DegenerateOptimizationError struct {
	Solve       string
	Denominator float64
}

func (e *DegenerateOptimizationError) Error() string {
	return fmt.Sprintf("%s solve is undefined: zero denominator (%g)", e.Solve, e.Denominator)
}

// NegativeVarianceError is returned when inconsistent inputs yield a negative portfolio variance.
type NegativeVarianceError struct {
	Variance float64
}

func (e *NegativeVarianceError) Error() string {
	return fmt.Sprintf("negative portfolio variance %g: covariance inconsistent with asset variances", e.Variance)
}

// ZeroRiskError is returned when a Sharpe ratio is requested for a riskless portfolio.
type ZeroRiskError struct {
	ExpectedReturn float64
}

func (e *ZeroRiskError) Error() string {
	return fmt.Sprintf("sharpe ratio undefined for zero-volatility portfolio (expected return %g)", e.ExpectedReturn)
}

// InvalidStepError is returned when a frontier step is outside (0, 1].
type InvalidStepError struct {
	Step float64
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid frontier step %v: must be in (0, 1]", e.Step)
}
