package analytics

import (
	"slices"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// DefaultTopN is the size of the gainers and losers lists.
const DefaultTopN = 5

// RankingInput is one company with its most recent bars, latest first.
type RankingInput struct {
	Company models.Company
	Bars    []models.Bar
}

// Changes computes the latest close-to-close change of every eligible
// company, in input order. Companies with fewer than two bars, or whose
// previous close is 0, are skipped.
func Changes(universe []RankingInput) []models.RankingEntry {
	out := make([]models.RankingEntry, 0, len(universe))
	for _, in := range universe {
		if e, ok := change(in); ok {
			out = append(out, e)
		}
	}
	return out
}

func change(in RankingInput) (models.RankingEntry, bool) {
	if len(in.Bars) < 2 {
		return models.RankingEntry{}, false
	}
	latest, prev := in.Bars[0], in.Bars[1]
	if prev.Close == 0 {
		return models.RankingEntry{}, false
	}
	return models.RankingEntry{
		Symbol:        in.Company.Symbol,
		Name:          in.Company.Name,
		Sector:        in.Company.Sector,
		CurrentPrice:  latest.Close,
		ChangePercent: (latest.Close - prev.Close) / prev.Close * 100,
		Volume:        latest.Volume,
	}, true
}

// TopGainers returns up to n entries with the highest change, ties kept in
// input order.
func TopGainers(entries []models.RankingEntry, n int) []models.RankingEntry {
	return topN(entries, n, func(a, b models.RankingEntry) int {
		return cmpFloat(b.ChangePercent, a.ChangePercent)
	})
}

// TopLosers returns up to n entries with the lowest change, ties kept in
// input order.
func TopLosers(entries []models.RankingEntry, n int) []models.RankingEntry {
	return topN(entries, n, func(a, b models.RankingEntry) int {
		return cmpFloat(a.ChangePercent, b.ChangePercent)
	})
}

func topN(entries []models.RankingEntry, n int, cmp func(a, b models.RankingEntry) int) []models.RankingEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, cmp)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SectorAverages groups the universe by sector in order of first appearance
// and averages the change of each group's eligible companies. Companies
// without a sector share one group with a nil Sector. A group with no
// eligible company reports AvgChange 0.
func SectorAverages(universe []RankingInput) []models.SectorSummary {
	var out []models.SectorSummary
	pos := make(map[string]int)
	nilPos := -1

	for _, in := range universe {
		idx := nilPos
		if s := in.Company.Sector; s != nil {
			if i, ok := pos[*s]; ok {
				idx = i
			} else {
				idx = -1
			}
		}
		if idx < 0 {
			out = append(out, models.SectorSummary{Sector: in.Company.Sector, Companies: []models.RankingEntry{}})
			idx = len(out) - 1
			if in.Company.Sector == nil {
				nilPos = idx
			} else {
				pos[*in.Company.Sector] = idx
			}
		}
		if e, ok := change(in); ok {
			out[idx].Companies = append(out[idx].Companies, e)
		}
	}

	for i := range out {
		if n := len(out[i].Companies); n > 0 {
			var sum float64
			for _, c := range out[i].Companies {
				sum += c.ChangePercent
			}
			out[i].AvgChange = sum / float64(n)
		}
	}
	return out
}
