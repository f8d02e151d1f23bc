// Package provider fetches daily price history from external market data
// sources.
package provider

import (
	"context"
	"slices"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Provider returns the daily bars of a symbol for roughly the last days
// calendar days, ascending by date with one bar per day.
//
// Failures, including an unknown symbol or an empty result, are reported as
// *analytics.NotFoundError.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol string, days int) ([]models.Bar, error)
}

// Normalize drops rows without prices, truncates dates to UTC days, sorts
// ascending and collapses same-day duplicates keeping the last one seen.
// The input slice is not modified.
func Normalize(symbol string, bars []models.Bar) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue
		}
		b.Symbol = symbol
		b.Date = models.DateOnly(b.Date)
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b models.Bar) int { return a.Date.Compare(b.Date) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(b.Date) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
