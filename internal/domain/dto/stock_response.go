package dto

import (
	"github.com/guttosm/stockpulse/internal/domain/models"
)

const dateLayout = "2006-01-02"

// CompanyResponse is one entry of GET /api/v1/companies.
type CompanyResponse struct {
	Symbol string  `json:"symbol" example:"INFY.NS"`
	Name   string  `json:"name" example:"Infosys"`
	Sector *string `json:"sector" example:"IT"`
}

// BarResponse is one day of GET /api/v1/data/{symbol}.
// Indicators without enough history are null.
type BarResponse struct {
	Date            string          `json:"date" example:"2025-01-02"`
	Open            float64         `json:"open" example:"1502.35"`
	High            float64         `json:"high" example:"1519.90"`
	Low             float64         `json:"low" example:"1497.00"`
	Close           float64         `json:"close" example:"1515.10"`
	Volume          int64           `json:"volume" example:"5400123"`
	DailyReturn     models.OptFloat `json:"daily_return" swaggertype:"number"`
	MovingAvg7      models.OptFloat `json:"moving_avg_7" swaggertype:"number"`
	Week52High      models.OptFloat `json:"week52_high" swaggertype:"number"`
	Week52Low       models.OptFloat `json:"week52_low" swaggertype:"number"`
	VolatilityScore models.OptFloat `json:"volatility_score" swaggertype:"number"`
	RSI             models.OptFloat `json:"rsi" swaggertype:"number"`
}

// SummaryResponse is the body of GET /api/v1/summary/{symbol}.
type SummaryResponse struct {
	Symbol       string          `json:"symbol" example:"TCS.NS"`
	CurrentPrice float64         `json:"current_price" example:"3890.5"`
	Week52High   float64         `json:"week52_high" example:"4592.25"`
	Week52Low    float64         `json:"week52_low" example:"3056.05"`
	AverageClose float64         `json:"average_close" example:"3901.7"`
	Volatility   models.OptFloat `json:"volatility" swaggertype:"number"`
	DailyReturn  models.OptFloat `json:"daily_return" swaggertype:"number"`
}

// ComparisonResponse is the body of GET /api/v1/compare. Per-symbol maps are
// keyed by the requested symbols.
type ComparisonResponse struct {
	Stocks        []string                   `json:"stocks" example:"TCS.NS,INFY.NS"`
	PeriodDays    int                        `json:"period_days" example:"30"`
	Correlation   models.OptFloat            `json:"correlation" swaggertype:"number"`
	Performance   map[string]models.OptFloat `json:"performance" swaggertype:"object,number"`
	Volatility    map[string]models.OptFloat `json:"volatility" swaggertype:"object,number"`
	CurrentPrices map[string]float64         `json:"current_prices"`
}

// MoverResponse is one entry of the gainers and losers lists.
type MoverResponse struct {
	Symbol        string  `json:"symbol" example:"ITC.NS"`
	Name          string  `json:"name" example:"ITC Limited"`
	CurrentPrice  float64 `json:"current_price" example:"412.3"`
	ChangePercent float64 `json:"change_percent" example:"2.41"`
	Volume        int64   `json:"volume" example:"10233400"`
}

// SectorCompanyResponse is one company inside a SectorResponse.
type SectorCompanyResponse struct {
	Symbol string  `json:"symbol" example:"WIPRO.NS"`
	Name   string  `json:"name" example:"Wipro"`
	Change float64 `json:"change" example:"-0.84"`
}

// SectorResponse is one group of GET /api/v1/sectors. Sector is null for
// companies without a sector.
type SectorResponse struct {
	Sector    *string                 `json:"sector" example:"IT"`
	AvgChange float64                 `json:"avg_change" example:"0.37"`
	Companies []SectorCompanyResponse `json:"companies"`
}

// NewCompanyResponses maps companies to their API shape.
func NewCompanyResponses(companies []models.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		out[i] = CompanyResponse{Symbol: c.Symbol, Name: c.Name, Sector: c.Sector}
	}
	return out
}

// NewBarResponses maps an enriched series to its API shape.
func NewBarResponses(bars []models.EnrichedBar) []BarResponse {
	out := make([]BarResponse, len(bars))
	for i, b := range bars {
		out[i] = BarResponse{
			Date:            b.Date.Format(dateLayout),
			Open:            b.Open,
			High:            b.High,
			Low:             b.Low,
			Close:           b.Close,
			Volume:          b.Volume,
			DailyReturn:     b.DailyReturn,
			MovingAvg7:      b.MovingAvg7,
			Week52High:      b.Week52High,
			Week52Low:       b.Week52Low,
			VolatilityScore: b.VolatilityScore,
			RSI:             b.RSI,
		}
	}
	return out
}

// NewSummaryResponse maps a summary to its API shape.
func NewSummaryResponse(s *models.Summary) SummaryResponse {
	return SummaryResponse{
		Symbol:       s.Symbol,
		CurrentPrice: s.CurrentPrice,
		Week52High:   s.Week52High,
		Week52Low:    s.Week52Low,
		AverageClose: s.AverageClose,
		Volatility:   s.Volatility,
		DailyReturn:  s.DailyReturn,
	}
}

// NewComparisonResponse maps a comparison to its API shape.
func NewComparisonResponse(c *models.Comparison, days int) ComparisonResponse {
	resp := ComparisonResponse{
		Stocks:        make([]string, 0, len(c.Legs)),
		PeriodDays:    days,
		Correlation:   c.Correlation,
		Performance:   make(map[string]models.OptFloat, len(c.Legs)),
		Volatility:    make(map[string]models.OptFloat, len(c.Legs)),
		CurrentPrices: make(map[string]float64, len(c.Legs)),
	}
	for _, l := range c.Legs {
		resp.Stocks = append(resp.Stocks, l.Symbol)
		resp.Performance[l.Symbol] = l.Performance
		resp.Volatility[l.Symbol] = l.Volatility
		resp.CurrentPrices[l.Symbol] = l.CurrentPrice
	}
	return resp
}

// NewMoverResponses maps ranking entries to their API shape.
func NewMoverResponses(entries []models.RankingEntry) []MoverResponse {
	out := make([]MoverResponse, len(entries))
	for i, e := range entries {
		out[i] = MoverResponse{
			Symbol:        e.Symbol,
			Name:          e.Name,
			CurrentPrice:  e.CurrentPrice,
			ChangePercent: e.ChangePercent,
			Volume:        e.Volume,
		}
	}
	return out
}

// NewSectorResponses maps sector summaries to their API shape.
func NewSectorResponses(sectors []models.SectorSummary) []SectorResponse {
	out := make([]SectorResponse, len(sectors))
	for i, s := range sectors {
		companies := make([]SectorCompanyResponse, len(s.Companies))
		for j, c := range s.Companies {
			companies[j] = SectorCompanyResponse{Symbol: c.Symbol, Name: c.Name, Change: c.ChangePercent}
		}
		out[i] = SectorResponse{Sector: s.Sector, AvgChange: s.AvgChange, Companies: companies}
	}
	return out
}
