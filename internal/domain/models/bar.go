package models

import "time"

// Bar is one symbol's daily OHLCV record.
//
// Date carries no time-of-day: producers truncate it to midnight UTC.
// Prices are not checked for low <= open,close <= high; upstream data may
// violate it and every consumer tolerates that.
type Bar struct {
	Symbol string    `json:"symbol" example:"INFY.NS"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open" example:"1502.35"`
	High   float64   `json:"high" example:"1519.90"`
	Low    float64   `json:"low" example:"1497.00"`
	Close  float64   `json:"close" example:"1515.10"`
	Volume int64     `json:"volume" example:"5400123"`
}

// EnrichedBar is a Bar plus the indicators derived from its trailing history.
// Each indicator is undefined until its window is complete.
type EnrichedBar struct {
	Bar
	DailyReturn     OptFloat `json:"daily_return"`
	MovingAvg7      OptFloat `json:"moving_avg_7"`
	Week52High      OptFloat `json:"week52_high"`
	Week52Low       OptFloat `json:"week52_low"`
	VolatilityScore OptFloat `json:"volatility_score"`
	RSI             OptFloat `json:"rsi"`
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RawBars strips the derived fields from an enriched series.
func RawBars(bars []EnrichedBar) []Bar {
	out := make([]Bar, len(bars))
	for i := range bars {
		out[i] = bars[i].Bar
	}
	return out
}
