// Package ingestion loads daily bars into the store, either from the market
// data provider (Refresh) or from CSV history exports (ImportDirectory).
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/storage"
)

const (
	fileSuffix  = ".csv"
	sourceCSV   = "csv"
	maxParallel = 8
)

// now is swapped by tests.
var now = time.Now

// Options tunes a Refresh or ImportDirectory run.
type Options struct {
	// Days is the provider lookback in calendar days (Refresh only).
	Days int
	// Parallel bounds concurrent symbols; <= 0 means min(8, NumCPU).
	Parallel int
	// Force reprocesses symbols already ingested for the same day.
	Force bool
	// Universe is the company list to refresh; empty means DefaultUniverse (Refresh only).
	Universe []models.Company
	// Progress, when set, is called once per symbol after it is processed.
	// err is nil for updated and skipped symbols.
	Progress func(symbol string, err error)
}

// Result counts the outcome of a run.
type Result struct {
	Total   int // symbols considered
	Updated int // symbols persisted
	Skipped int // symbols already ingested for the day
	Missed  int // symbols the provider had no data for (Refresh only)
	Rows    int // bars persisted
}

// tally is a Result safe for concurrent updates.
type tally struct {
	mu  sync.Mutex
	res Result
}

func (t *tally) add(fn func(r *Result)) {
	t.mu.Lock()
	fn(&t.res)
	t.mu.Unlock()
}

func (t *tally) result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.res
}

func parallelism(requested int) int {
	if requested > 0 {
		return min(requested, maxParallel)
	}
	return min(maxParallel, runtime.NumCPU())
}

func (o Options) progress(symbol string, err error) {
	if o.Progress != nil {
		o.Progress(symbol, err)
	}
}

// ImportFiles lists the CSV exports of dir, sorted by name.
func ImportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", fileSuffix, dir)
	}
	return files, nil
}

// symbolFromFile maps "infy.ns.csv" to "INFY.NS".
func symbolFromFile(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSpace(base[:len(base)-len(filepath.Ext(base))]))
}

// ImportDirectory imports every "<SYMBOL>.csv" history export found in dir.
//
// Behavior:
//   - Each file must carry the Yahoo Finance header and strictly ascending dates.
//   - Bars are enriched over the whole file and upserted into stock_data.
//   - A symbol whose last bar date is already in the ingestion log is skipped,
//     unless opts.Force, in which case its stored bars are replaced.
//   - Files are processed concurrently; the first error cancels the rest and is returned.
func ImportDirectory(ctx context.Context, dir string, repo storage.StockRepository, opts Options) (Result, error) {
	files, err := ImportFiles(dir)
	if err != nil {
		return Result{}, err
	}

	workers := parallelism(opts.Parallel)
	log := logger.Component("ingestion")
	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", workers).Msg("import start")

	t := &tally{res: Result{Total: len(files)}}
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			symbol := symbolFromFile(f)
			base := filepath.Base(f)
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Str("symbol", symbol).Msg("file start")

			rows, skipped, err := importFile(gctx, f, symbol, repo, opts.Force)
			opts.progress(symbol, err)
			if err != nil {
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if skipped {
				t.add(func(r *Result) { r.Skipped++ })
				log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Bool("skipped", true).Msg("already ingested")
				return nil
			}
			t.add(func(r *Result) { r.Updated++; r.Rows += rows })
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", rows).Dur("elapsed", time.Since(start)).Bool("force", opts.Force).Msg("file done")
			return nil
		})
	}

	err = g.Wait()
	res := t.result()
	log.Info().Int("updated", res.Updated).Int("skipped", res.Skipped).Int("rows", res.Rows).Msg("import finished")
	return res, err
}

func importFile(ctx context.Context, path, symbol string, repo storage.StockRepository, force bool) (rows int, skipped bool, err error) {
	bars, err := parseFile(ctx, path, symbol)
	if err != nil {
		return 0, false, err
	}
	if len(bars) == 0 {
		return 0, true, nil
	}
	enriched, err := analytics.Enrich(bars)
	if err != nil {
		return 0, false, err
	}

	// Idempotency: the ledger is keyed by the file's last session.
	last := bars[len(bars)-1].Date
	exists, err := repo.HasIngestionForDate(ctx, symbol, last)
	if err != nil {
		return 0, false, fmt.Errorf("check ingestion log: %w", err)
	}
	if exists && !force {
		return 0, true, nil
	}
	if exists && force {
		if err := repo.DeleteBarsBySymbol(ctx, symbol); err != nil {
			return 0, false, fmt.Errorf("delete existing: %w", err)
		}
	}

	if err := repo.UpsertBars(ctx, enriched); err != nil {
		return 0, false, fmt.Errorf("upsert bars: %w", err)
	}
	if err := repo.UpsertIngestionLog(ctx, symbol, last, sourceCSV, len(enriched)); err != nil {
		return 0, false, fmt.Errorf("upsert ingestion log: %w", err)
	}
	return len(enriched), false, nil
}
