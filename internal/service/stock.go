package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	// HistoryFallbackDays caps the provider fetch when the store has no bars.
	HistoryFallbackDays = 30
	// CompareMaxDays caps the provider fetch of each comparison leg.
	CompareMaxDays = 90

	maxConcurrentLookups = 8
)

// StockService defines the read-side business operations of the API.
type StockService interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetHistory(ctx context.Context, symbol string, days int) ([]models.EnrichedBar, error)
	GetSummary(ctx context.Context, symbol string) (*models.Summary, error)
	Compare(ctx context.Context, symbol1, symbol2 string, days int) (*models.Comparison, error)
	TopGainers(ctx context.Context) ([]models.RankingEntry, error)
	TopLosers(ctx context.Context) ([]models.RankingEntry, error)
	Sectors(ctx context.Context) ([]models.SectorSummary, error)
}

type stockService struct {
	repo     storage.StockRepository
	provider provider.Provider
	now      func() time.Time
}

func NewStockService(repo storage.StockRepository, p provider.Provider) StockService {
	return &stockService{repo: repo, provider: p, now: time.Now}
}

func (s *stockService) today() time.Time { return models.DateOnly(s.now().UTC()) }

func (s *stockService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// GetHistory returns the stored bars of the last days calendar days. When the
// store has none, a short window is fetched from the provider and enriched on
// the fly without being persisted.
func (s *stockService) GetHistory(ctx context.Context, symbol string, days int) ([]models.EnrichedBar, error) {
	since := s.today().AddDate(0, 0, -days)
	bars, err := s.repo.GetBars(ctx, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("load bars %s: %w", symbol, err)
	}
	if len(bars) > 0 {
		return bars, nil
	}

	raw, err := s.provider.Fetch(ctx, symbol, min(days, HistoryFallbackDays))
	if err != nil {
		return nil, err
	}
	return analytics.Enrich(raw)
}

func (s *stockService) GetSummary(ctx context.Context, symbol string) (*models.Summary, error) {
	asOf := s.today()
	latest, err := s.repo.GetLatestBars(ctx, symbol, 1)
	if err != nil {
		return nil, fmt.Errorf("load latest bar %s: %w", symbol, err)
	}
	if len(latest) == 0 {
		return nil, &analytics.NotFoundError{Symbol: symbol}
	}
	history, err := s.repo.GetBars(ctx, symbol, analytics.SummaryWindowStart(asOf))
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", symbol, err)
	}
	return analytics.Summarize(symbol, &latest[0], models.RawBars(history), asOf)
}

// Compare fetches both legs from the provider concurrently and compares them.
func (s *stockService) Compare(ctx context.Context, symbol1, symbol2 string, days int) (*models.Comparison, error) {
	period := min(days, CompareMaxDays)
	legs := [2]analytics.Leg{{Symbol: symbol1}, {Symbol: symbol2}}

	g, gctx := errgroup.WithContext(ctx)
	for i := range legs {
		i := i
		g.Go(func() error {
			raw, err := s.provider.Fetch(gctx, legs[i].Symbol, period)
			if err != nil {
				return err
			}
			enriched, err := analytics.Enrich(raw)
			if err != nil {
				return err
			}
			legs[i].Bars = enriched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analytics.Compare(legs[0], legs[1])
}

func (s *stockService) TopGainers(ctx context.Context) ([]models.RankingEntry, error) {
	universe, err := s.rankingUniverse(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopGainers(analytics.Changes(universe), analytics.DefaultTopN), nil
}

func (s *stockService) TopLosers(ctx context.Context) ([]models.RankingEntry, error) {
	universe, err := s.rankingUniverse(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.TopLosers(analytics.Changes(universe), analytics.DefaultTopN), nil
}

func (s *stockService) Sectors(ctx context.Context) ([]models.SectorSummary, error) {
	universe, err := s.rankingUniverse(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.SectorAverages(universe), nil
}

// rankingUniverse loads every company with its two most recent bars. Lookups
// run concurrently but the result keeps the company order.
func (s *stockService) rankingUniverse(ctx context.Context) ([]analytics.RankingInput, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	out := make([]analytics.RankingInput, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, c := range companies {
		i, c := i, c
		out[i].Company = c
		g.Go(func() error {
			bars, err := s.repo.GetLatestBars(gctx, c.Symbol, 2)
			if err != nil {
				return fmt.Errorf("load latest bars %s: %w", c.Symbol, err)
			}
			out[i].Bars = models.RawBars(bars)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
