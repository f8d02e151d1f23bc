package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/provider"
	"github.com/guttosm/stockpulse/internal/storage"
)

// DefaultRefreshDays covers a full 52-week window plus slack for holidays.
const DefaultRefreshDays = 400

// Refresh upserts the universe into companies, then fetches, enriches and
// stores the recent history of every company.
//
// Behavior:
//   - A company already refreshed for the last trading day is skipped, unless opts.Force.
//   - Provider misses are logged and counted in Result.Missed; the run goes on.
//   - Storage errors cancel the remaining companies and are returned.
func Refresh(ctx context.Context, repo storage.StockRepository, p provider.Provider, opts Options) (Result, error) {
	universe := opts.Universe
	if len(universe) == 0 {
		universe = DefaultUniverse()
	}
	days := opts.Days
	if days <= 0 {
		days = DefaultRefreshDays
	}

	log := logger.Component("ingestion")
	if err := repo.UpsertCompanies(ctx, universe); err != nil {
		return Result{}, fmt.Errorf("upsert companies: %w", err)
	}

	asOf := LastTradingDay(now().UTC())
	workers := parallelism(opts.Parallel)
	log.Info().Int("companies", len(universe)).Int("days", days).Str("as_of", asOf.Format("2006-01-02")).
		Int("max_parallel", workers).Str("provider", p.Name()).Msg("refresh start")

	t := &tally{res: Result{Total: len(universe)}}
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, company := range universe {
		idx := i
		symbol := company.Symbol
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()

			exists, err := repo.HasIngestionForDate(gctx, symbol, asOf)
			if err != nil {
				opts.progress(symbol, err)
				log.Error().Str("symbol", symbol).Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("symbol %s: check ingestion log: %w", symbol, err)
			}
			if exists && !opts.Force {
				t.add(func(r *Result) { r.Skipped++ })
				opts.progress(symbol, nil)
				log.Info().Int("idx", idx+1).Int("total", len(universe)).Str("symbol", symbol).Bool("skipped", true).Msg("already refreshed")
				return nil
			}

			rows, err := refreshSymbol(gctx, repo, p, symbol, days, asOf)
			opts.progress(symbol, err)
			switch {
			case errors.Is(err, analytics.ErrNotFound), errors.Is(err, analytics.ErrInvalidSeries):
				t.add(func(r *Result) { r.Missed++ })
				log.Warn().Str("symbol", symbol).Err(err).Msg("no usable data, skipping")
				return nil
			case err != nil:
				log.Error().Str("symbol", symbol).Dur("elapsed", time.Since(start)).Err(err).Msg("refresh failed")
				return fmt.Errorf("symbol %s: %w", symbol, err)
			}
			t.add(func(r *Result) { r.Updated++; r.Rows += rows })
			log.Info().Int("idx", idx+1).Int("total", len(universe)).Str("symbol", symbol).Int("rows", rows).
				Dur("elapsed", time.Since(start)).Bool("force", opts.Force).Msg("symbol refreshed")
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// cancelled fetches are reported as misses
		err = ctx.Err()
	}
	res := t.result()
	log.Info().Int("updated", res.Updated).Int("skipped", res.Skipped).Int("missed", res.Missed).Int("rows", res.Rows).Msg("refresh finished")
	return res, err
}

// refreshSymbol enriches the fetched bars on top of the stored history that
// precedes them and upserts only the fetched bars, so stored rows never lose
// indicators that the shorter fetched window could not compute.
func refreshSymbol(ctx context.Context, repo storage.StockRepository, p provider.Provider, symbol string, days int, asOf time.Time) (int, error) {
	bars, err := p.Fetch(ctx, symbol, days)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, &analytics.NotFoundError{Symbol: symbol}
	}

	warmup, err := storedWarmup(ctx, repo, symbol, bars[0].Date)
	if err != nil {
		return 0, err
	}
	enriched, err := analytics.Enrich(append(warmup, bars...))
	if err != nil {
		return 0, err
	}
	enriched = enriched[len(warmup):]

	if err := repo.UpsertBars(ctx, enriched); err != nil {
		return 0, fmt.Errorf("upsert bars: %w", err)
	}
	if err := repo.UpsertIngestionLog(ctx, symbol, asOf, p.Name(), len(enriched)); err != nil {
		return 0, fmt.Errorf("upsert ingestion log: %w", err)
	}
	return len(enriched), nil
}

// storedWarmup returns up to analytics.WarmupBars stored bars dated strictly
// before first, oldest first.
func storedWarmup(ctx context.Context, repo storage.StockRepository, symbol string, first time.Time) ([]models.Bar, error) {
	first = models.DateOnly(first)
	// two calendar days per trading bar leaves room for weekends and holidays
	since := first.AddDate(0, 0, -2*analytics.WarmupBars)
	stored, err := repo.GetBars(ctx, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("load stored history: %w", err)
	}
	prior := make([]models.Bar, 0, len(stored))
	for _, b := range stored {
		if models.DateOnly(b.Date).Before(first) {
			b.Symbol = symbol
			prior = append(prior, b.Bar)
		}
	}
	if len(prior) > analytics.WarmupBars {
		prior = prior[len(prior)-analytics.WarmupBars:]
	}
	return prior, nil
}
