package optimization

import "fmt"

// Sampling intervals understood by the price source, with their annualization
// multipliers. Daily data uses 252 trading days.
var periodsPerYear = map[string]int{
	"1d":  252,
	"5d":  52,
	"1wk": 52,
	"1mo": 12,
	"3mo": 4,
}

// PeriodsPerYear returns the annualization multiplier for a sampling interval.
func PeriodsPerYear(interval string) (int, error) {
	k, ok := periodsPerYear[interval]
	if !ok {
		return 0, fmt.Errorf("unsupported sampling interval %q (use 1d, 5d, 1wk, 1mo or 3mo)", interval)
	}
	return k, nil
}
