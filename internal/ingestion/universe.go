package ingestion

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// DefaultUniverse returns the companies tracked when no universe file is
// configured.
func DefaultUniverse() []models.Company {
	return []models.Company{
		{Symbol: "RELIANCE.NS", Name: "Reliance Industries", Sector: models.StringPtr("Conglomerate")},
		{Symbol: "TCS.NS", Name: "Tata Consultancy Services", Sector: models.StringPtr("IT")},
		{Symbol: "HDFCBANK.NS", Name: "HDFC Bank", Sector: models.StringPtr("Banking")},
		{Symbol: "INFY.NS", Name: "Infosys", Sector: models.StringPtr("IT")},
		{Symbol: "ICICIBANK.NS", Name: "ICICI Bank", Sector: models.StringPtr("Banking")},
		{Symbol: "BHARTIARTL.NS", Name: "Bharti Airtel", Sector: models.StringPtr("Telecom")},
		{Symbol: "ITC.NS", Name: "ITC Limited", Sector: models.StringPtr("FMCG")},
		{Symbol: "SBIN.NS", Name: "State Bank of India", Sector: models.StringPtr("Banking")},
		{Symbol: "WIPRO.NS", Name: "Wipro", Sector: models.StringPtr("IT")},
		{Symbol: "HINDUNILVR.NS", Name: "Hindustan Unilever", Sector: models.StringPtr("FMCG")},
	}
}

type universeFile struct {
	Companies []universeEntry `yaml:"companies"`
}

type universeEntry struct {
	Symbol    string   `yaml:"symbol"`
	Name      string   `yaml:"name"`
	Sector    string   `yaml:"sector"`
	MarketCap *float64 `yaml:"market_cap"`
}

// LoadUniverse reads a YAML universe file of the form
//
//	companies:
//	  - symbol: TCS.NS
//	    name: Tata Consultancy Services
//	    sector: IT
//	    market_cap: 1.2e13
//
// Symbols are upper-cased; an empty sector is stored as no sector. A path of
// "" returns DefaultUniverse.
func LoadUniverse(path string) ([]models.Company, error) {
	if path == "" {
		return DefaultUniverse(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	var f universeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse universe %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(f.Companies))
	out := make([]models.Company, 0, len(f.Companies))
	for i, e := range f.Companies {
		sym := strings.ToUpper(strings.TrimSpace(e.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("universe %s: entry %d has no symbol", path, i+1)
		}
		if _, dup := seen[sym]; dup {
			return nil, fmt.Errorf("universe %s: duplicate symbol %s", path, sym)
		}
		seen[sym] = struct{}{}

		c := models.Company{Symbol: sym, Name: strings.TrimSpace(e.Name)}
		if c.Name == "" {
			c.Name = sym
		}
		if s := strings.TrimSpace(e.Sector); s != "" {
			c.Sector = models.StringPtr(s)
		}
		if e.MarketCap != nil {
			c.MarketCap = models.Some(*e.MarketCap)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("universe %s: no companies", path)
	}
	return out, nil
}
