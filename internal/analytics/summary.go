package analytics

import (
	"math"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// SummaryLookbackDays is the calendar-day span of the summary window. It is
// intentionally not the 252-bar window used by Enrich.
const SummaryLookbackDays = 365

// SummaryWindowStart returns the first calendar day of the summary window
// ending at asOf. Callers use it to bound their store query.
func SummaryWindowStart(asOf time.Time) time.Time {
	return models.DateOnly(asOf).AddDate(0, 0, -SummaryLookbackDays)
}

// Summarize reduces a symbol's latest bar and its trailing history into a
// Summary.
//
// The window covers bars dated in [asOf-365d, asOf): the as-of day itself is
// excluded. High, low and average close are taken over that window and read
// 0 when it holds no bars. Volatility and daily return come from latest.
//
// A nil latest means the symbol has no data and yields a *NotFoundError.
func Summarize(symbol string, latest *models.EnrichedBar, history []models.Bar, asOf time.Time) (*models.Summary, error) {
	if latest == nil {
		return nil, &NotFoundError{Symbol: symbol}
	}

	from := SummaryWindowStart(asOf)
	until := models.DateOnly(asOf)

	high, low := math.Inf(-1), math.Inf(1)
	var sum float64
	var n int
	for _, b := range history {
		d := models.DateOnly(b.Date)
		if d.Before(from) || !d.Before(until) {
			continue
		}
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
		sum += b.Close
		n++
	}

	s := &models.Summary{
		Symbol:       symbol,
		CurrentPrice: latest.Close,
		Volatility:   latest.VolatilityScore,
		DailyReturn:  latest.DailyReturn,
	}
	if n > 0 {
		s.Week52High = high
		s.Week52Low = low
		s.AverageClose = sum / float64(n)
	}
	return s, nil
}
