// Package analytics derives indicators and cross-symbol statistics from
// daily price bars.
//
// Every function in this package is a pure transformation of its arguments:
// no I/O, no logging and no package-level state, so callers may invoke them
// concurrently without coordination.
package analytics

import (
	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Window sizes, counted in bars (trading days) not calendar days.
const (
	MovingAverageWindow = 7
	Week52Window        = 252
	VolatilityWindow    = 20
	RSIPeriod           = 14
)

// WarmupBars is how many bars must precede a bar for every indicator of it
// to see a complete window.
const WarmupBars = Week52Window - 1

// Enrich computes the per-bar indicators of one symbol's series.
//
// bars must be strictly ascending by date with a single symbol; otherwise an
// *InvalidSeriesError is returned. The output has the same length and order
// as the input. An empty series yields an empty result.
//
// Definitions (i is the bar index):
//   - DailyReturn: (close-open)/open, undefined when open is 0.
//   - MovingAvg7: mean close over [i-6, i].
//   - Week52High / Week52Low: max high / min low over [i-251, i].
//   - VolatilityScore: sample stddev of the defined daily returns over
//     [i-19, i], times 100; needs at least two defined returns.
//   - RSI: mean gain and mean loss of the close-to-close deltas over
//     [i-13, i], where the first bar's delta is 0. A window without losses
//     reads 100, a window without any movement is undefined.
//
// Windows are causal and the whole pass is linear in len(bars).
func Enrich(bars []models.Bar) ([]models.EnrichedBar, error) {
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}
	out := make([]models.EnrichedBar, len(bars))
	if len(bars) == 0 {
		return out, nil
	}

	closes := newRollingSum(MovingAverageWindow)
	returns := newRollingSum(VolatilityWindow)
	gains := newRollingSum(RSIPeriod)
	losses := newRollingSum(RSIPeriod)
	highs := newMaxWindow(Week52Window)
	lows := newMinWindow(Week52Window)

	for i, b := range bars {
		e := models.EnrichedBar{Bar: b}

		e.DailyReturn = dailyReturn(b)
		ret, ok := e.DailyReturn.Get()
		returns.push(ret, ok)
		if returns.full() {
			if sd, ok := returns.sampleStdDev(); ok {
				e.VolatilityScore = models.Some(sd * 100)
			}
		}

		closes.push(b.Close, true)
		if closes.full() {
			if m, ok := closes.mean(); ok {
				e.MovingAvg7 = models.Some(m)
			}
		}

		highs.push(i, b.High)
		lows.push(i, b.Low)
		if i >= Week52Window-1 {
			e.Week52High = models.Some(highs.value())
			e.Week52Low = models.Some(lows.value())
		}

		var delta float64
		if i > 0 {
			delta = b.Close - bars[i-1].Close
		}
		gains.push(max(delta, 0), true)
		losses.push(max(-delta, 0), true)
		if gains.full() {
			e.RSI = relativeStrength(gains, losses)
		}

		out[i] = e
	}
	return out, nil
}

// ValidateSeries checks that bars belong to one symbol and that dates are
// strictly ascending (which also rules out duplicates).
func ValidateSeries(bars []models.Bar) error {
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if cur.Symbol != bars[0].Symbol {
			return &InvalidSeriesError{Symbol: bars[0].Symbol, Index: i, Date: cur.Date,
				Reason: "mixed symbol " + cur.Symbol}
		}
		p, c := models.DateOnly(prev.Date), models.DateOnly(cur.Date)
		switch {
		case c.Equal(p):
			return &InvalidSeriesError{Symbol: cur.Symbol, Index: i, Date: cur.Date, Reason: "duplicate date"}
		case c.Before(p):
			return &InvalidSeriesError{Symbol: cur.Symbol, Index: i, Date: cur.Date, Reason: "date out of order"}
		}
	}
	return nil
}

func dailyReturn(b models.Bar) models.OptFloat {
	if b.Open == 0 {
		return models.None()
	}
	return models.Some((b.Close - b.Open) / b.Open)
}

func relativeStrength(gains, losses *rollingSum) models.OptFloat {
	gain, _ := gains.mean()
	loss, _ := losses.mean()
	switch {
	case loss == 0 && gain == 0:
		return models.None()
	case loss == 0:
		return models.Some(100)
	}
	return models.Some(100 - 100/(1+gain/loss))
}
