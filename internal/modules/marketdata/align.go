package marketdata

import (
	"sort"
	"time"

	"github.com/aristath/twostocks/internal/clients/yahoo"
)

const dateLayout = "2006-01-02"

// Align keeps only the calendar dates present in both histories, in ascending
// order. Bars are matched by UTC calendar day; a later bar on the same day wins.
func Align(a, b []yahoo.PriceBar) ([]time.Time, []float64, []float64, error) {
	byDayA := indexByDay(a)
	byDayB := indexByDay(b)

	days := make([]string, 0, len(byDayA))
	for day := range byDayA {
		if _, ok := byDayB[day]; ok {
			days = append(days, day)
		}
	}
	if len(days) < 2 {
		return nil, nil, nil, ErrNoOverlap
	}
	sort.Strings(days)

	dates := make([]time.Time, len(days))
	pricesA := make([]float64, len(days))
	pricesB := make([]float64, len(days))
	for i, day := range days {
		barA := byDayA[day]
		dates[i] = barA.Date
		pricesA[i] = barA.Price()
		pricesB[i] = byDayB[day].Price()
	}

	return dates, pricesA, pricesB, nil
}

func indexByDay(bars []yahoo.PriceBar) map[string]yahoo.PriceBar {
	byDay := make(map[string]yahoo.PriceBar, len(bars))
	for _, bar := range bars {
		day := bar.Date.UTC().Format(dateLayout)
		if prev, ok := byDay[day]; ok && prev.Date.After(bar.Date) {
			continue
		}
		byDay[day] = bar
	}
	return byDay
}
