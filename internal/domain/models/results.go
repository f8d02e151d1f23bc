package models

// Summary is the point-in-time view of one symbol: latest price, the
// trailing 365-calendar-day range and average, and the latest bar's
// volatility and daily return.
type Summary struct {
	Symbol       string
	CurrentPrice float64
	Week52High   float64
	Week52Low    float64
	AverageClose float64
	Volatility   OptFloat
	DailyReturn  OptFloat
}

// ComparisonLeg holds the per-symbol statistics of a Comparison.
type ComparisonLeg struct {
	Symbol       string
	Performance  OptFloat
	Volatility   OptFloat
	CurrentPrice float64
}

// Comparison relates two price series position by position.
type Comparison struct {
	Correlation OptFloat
	Legs        []ComparisonLeg
}

// RankingEntry is one symbol's latest close-to-close move.
type RankingEntry struct {
	Symbol        string
	Name          string
	Sector        *string
	CurrentPrice  float64
	ChangePercent float64
	Volume        int64
}

// SectorSummary averages the moves of the eligible companies of one sector.
// Sector is nil for the group of companies without a sector.
type SectorSummary struct {
	Sector    *string
	AvgChange float64
	Companies []RankingEntry
}
