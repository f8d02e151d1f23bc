package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Leg is one side of a comparison: a symbol and its enriched series.
type Leg struct {
	Symbol string
	Bars   []models.EnrichedBar
}

// Compare computes correlation, performance and volatility of two series.
//
// The series are paired by position, not by date, so both must come from
// the same period; different lengths fail with *LengthMismatchError. An
// empty leg fails with *NotFoundError.
func Compare(a, b Leg) (*models.Comparison, error) {
	for _, l := range []Leg{a, b} {
		if len(l.Bars) == 0 {
			return nil, &NotFoundError{Symbol: l.Symbol}
		}
	}
	if len(a.Bars) != len(b.Bars) {
		return nil, &LengthMismatchError{Left: a.Symbol, Right: b.Symbol, LeftN: len(a.Bars), RightN: len(b.Bars)}
	}

	xa, xb := closes(a.Bars), closes(b.Bars)
	corr := models.None()
	if len(xa) >= 2 {
		corr = models.Some(stat.Correlation(xa, xb, nil))
	}

	return &models.Comparison{
		Correlation: corr,
		Legs:        []models.ComparisonLeg{compareLeg(a), compareLeg(b)},
	}, nil
}

func compareLeg(l Leg) models.ComparisonLeg {
	first, last := l.Bars[0].Close, l.Bars[len(l.Bars)-1].Close
	leg := models.ComparisonLeg{
		Symbol:       l.Symbol,
		CurrentPrice: last,
		Volatility:   returnVolatility(l.Bars),
	}
	if first != 0 {
		leg.Performance = models.Some((last - first) / first * 100)
	}
	return leg
}

// returnVolatility is the sample stddev of the defined daily returns, in
// percent. Undefined returns are skipped.
func returnVolatility(bars []models.EnrichedBar) models.OptFloat {
	rets := make([]float64, 0, len(bars))
	for _, b := range bars {
		if r, ok := b.DailyReturn.Get(); ok {
			rets = append(rets, r)
		}
	}
	if len(rets) < 2 {
		return models.None()
	}
	return models.Some(stat.StdDev(rets, nil) * 100)
}

func closes(bars []models.EnrichedBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
