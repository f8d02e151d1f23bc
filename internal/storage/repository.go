package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
	pq "github.com/lib/pq"
)

// StockRepository defines contract for DB operations.
type StockRepository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	UpsertCompanies(ctx context.Context, companies []models.Company) error
	GetBars(ctx context.Context, symbol string, since time.Time) ([]models.EnrichedBar, error)
	GetLatestBars(ctx context.Context, symbol string, n int) ([]models.EnrichedBar, error)
	UpsertBars(ctx context.Context, bars []models.EnrichedBar) error
	DeleteBarsBySymbol(ctx context.Context, symbol string) error
	HasIngestionForDate(ctx context.Context, symbol string, date time.Time) (bool, error)
	UpsertIngestionLog(ctx context.Context, symbol string, date time.Time, source string, rowCount int) error
}

type stockRepository struct {
	db *sql.DB
}

func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

// barColumns is the column order shared by selects, the staging table and the final upsert.
var barColumns = []string{
	"symbol", "date", "open", "high", "low", "close", "volume",
	"daily_return", "moving_avg_7", "week52_high", "week52_low", "volatility_score", "rsi",
}

const selectBars = `
	SELECT symbol, date, open, high, low, close, volume,
	       daily_return, moving_avg_7, week52_high, week52_low, volatility_score, rsi
	FROM stock_data`

// ListCompanies returns every tracked company ordered by symbol.
func (r *stockRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT symbol, name, sector, market_cap FROM companies ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Company, 0)
	for rows.Next() {
		var (
			c      models.Company
			sector sql.NullString
		)
		if err := rows.Scan(&c.Symbol, &c.Name, &sector, &c.MarketCap); err != nil {
			return nil, err
		}
		if sector.Valid {
			c.Sector = models.StringPtr(sector.String)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertCompanies inserts or updates companies in one transaction. A missing
// market cap never overwrites a known one.
func (r *stockRepository) UpsertCompanies(ctx context.Context, companies []models.Company) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, c := range companies {
		var sector any
		if c.Sector != nil {
			sector = *c.Sector
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO companies (symbol, name, sector, market_cap)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol)
			DO UPDATE SET name = EXCLUDED.name,
			              sector = EXCLUDED.sector,
			              market_cap = COALESCE(EXCLUDED.market_cap, companies.market_cap)
		`, c.Symbol, c.Name, sector, c.MarketCap); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert company %s: %w", c.Symbol, err)
		}
	}
	return tx.Commit()
}

// GetBars returns the stored bars of symbol dated on or after since, oldest first.
func (r *stockRepository) GetBars(ctx context.Context, symbol string, since time.Time) ([]models.EnrichedBar, error) {
	return r.queryBars(ctx, selectBars+` WHERE symbol = $1 AND date >= $2 ORDER BY date ASC`, symbol, models.DateOnly(since))
}

// GetLatestBars returns up to n most recent bars of symbol, newest first.
func (r *stockRepository) GetLatestBars(ctx context.Context, symbol string, n int) ([]models.EnrichedBar, error) {
	return r.queryBars(ctx, selectBars+` WHERE symbol = $1 ORDER BY date DESC LIMIT $2`, symbol, n)
}

func (r *stockRepository) queryBars(ctx context.Context, query string, args ...any) ([]models.EnrichedBar, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.EnrichedBar, 0)
	for rows.Next() {
		var b models.EnrichedBar
		if err := rows.Scan(
			&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume,
			&b.DailyReturn, &b.MovingAvg7, &b.Week52High, &b.Week52Low, &b.VolatilityScore, &b.RSI,
		); err != nil {
			return nil, err
		}
		b.Date = models.DateOnly(b.Date)
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertBars bulk loads bars through a COPY into a temporary staging table
// and merges them into stock_data, replacing rows with the same (symbol, date).
func (r *stockRepository) UpsertBars(ctx context.Context, bars []models.EnrichedBar) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TEMP TABLE stock_data_stage (
			symbol TEXT, date DATE,
			open DOUBLE PRECISION, high DOUBLE PRECISION, low DOUBLE PRECISION, close DOUBLE PRECISION,
			volume BIGINT,
			daily_return DOUBLE PRECISION, moving_avg_7 DOUBLE PRECISION,
			week52_high DOUBLE PRECISION, week52_low DOUBLE PRECISION,
			volatility_score DOUBLE PRECISION, rsi DOUBLE PRECISION
		) ON COMMIT DROP`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("stock_data_stage", barColumns...))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx,
			b.Symbol, models.DateOnly(b.Date), b.Open, b.High, b.Low, b.Close, b.Volume,
			b.DailyReturn, b.MovingAvg7, b.Week52High, b.Week52Low, b.VolatilityScore, b.RSI,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_data (symbol, date, open, high, low, close, volume,
		                        daily_return, moving_avg_7, week52_high, week52_low, volatility_score, rsi)
		SELECT DISTINCT ON (symbol, date)
		       symbol, date, open, high, low, close, volume,
		       daily_return, moving_avg_7, week52_high, week52_low, volatility_score, rsi
		FROM stock_data_stage
		ON CONFLICT (symbol, date)
		DO UPDATE SET open = EXCLUDED.open,
		              high = EXCLUDED.high,
		              low = EXCLUDED.low,
		              close = EXCLUDED.close,
		              volume = EXCLUDED.volume,
		              daily_return = EXCLUDED.daily_return,
		              moving_avg_7 = EXCLUDED.moving_avg_7,
		              week52_high = EXCLUDED.week52_high,
		              week52_low = EXCLUDED.week52_low,
		              volatility_score = EXCLUDED.volatility_score,
		              rsi = EXCLUDED.rsi
	`); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// DeleteBarsBySymbol removes all stored bars of symbol.
func (r *stockRepository) DeleteBarsBySymbol(ctx context.Context, symbol string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stock_data WHERE symbol = $1`, symbol)
	return err
}

// HasIngestionForDate checks if symbol was already ingested for the given day.
func (r *stockRepository) HasIngestionForDate(ctx context.Context, symbol string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE symbol = $1 AND file_date = $2)`,
		symbol, models.DateOnly(date),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for symbol and day.
func (r *stockRepository) UpsertIngestionLog(ctx context.Context, symbol string, date time.Time, source string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (symbol, file_date, source, row_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, file_date)
		DO UPDATE SET source = EXCLUDED.source,
		              row_count = EXCLUDED.row_count,
		              ingested_at = NOW()
	`, symbol, models.DateOnly(date), source, rowCount)
	return err
}
