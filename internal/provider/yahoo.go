package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/guttosm/stockpulse/internal/analytics"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/time/rate"
)

var errEmptyChart = errors.New("no price data returned")

// fetchChart is the network call, swapped out in tests.
var fetchChart = func(p *chart.Params) ([]*finance.ChartBar, error) {
	iter := chart.Get(p)
	var bars []*finance.ChartBar
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	return bars, iter.Err()
}

// YahooConfig tunes a YahooProvider. Zero values fall back to defaults.
type YahooConfig struct {
	RatePerMinute int
	MaxRetries    uint64
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
}

// YahooProvider reads daily charts from Yahoo Finance.
type YahooProvider struct {
	limiter *rate.Limiter
	cfg     YahooConfig
	now     func() time.Time
}

// NewYahooProvider builds a rate-limited, retrying Yahoo client.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 60
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	burst := cfg.RatePerMinute / 10
	if burst < 1 {
		burst = 1
	}
	if burst > 5 {
		burst = 5
	}
	return &YahooProvider{
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), burst),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Name implements Provider.
func (y *YahooProvider) Name() string { return "yahoo" }

// Fetch implements Provider.
func (y *YahooProvider) Fetch(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	if days <= 0 {
		return nil, &analytics.NotFoundError{Symbol: symbol, Err: fmt.Errorf("invalid period of %d days", days)}
	}
	end := y.now().UTC()
	start := end.AddDate(0, 0, -days)
	log := logger.Component("provider")

	var raw []*finance.ChartBar
	op := func() error {
		if err := y.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		bars, err := fetchChart(&chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		})
		if err != nil {
			return fmt.Errorf("chart %s: %w", symbol, err)
		}
		if len(bars) == 0 {
			return backoff.Permanent(errEmptyChart)
		}
		raw = bars
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = y.cfg.InitialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, y.cfg.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("symbol", symbol).Dur("retry_in", wait).Msg("provider fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, &analytics.NotFoundError{Symbol: symbol, Err: err}
	}

	bars := Normalize(symbol, convertBars(raw))
	if len(bars) == 0 {
		return nil, &analytics.NotFoundError{Symbol: symbol, Err: errEmptyChart}
	}
	log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("provider fetch ok")
	return bars, nil
}

func convertBars(raw []*finance.ChartBar) []models.Bar {
	out := make([]models.Bar, 0, len(raw))
	for _, b := range raw {
		if b == nil {
			continue
		}
		out = append(out, models.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: int64(b.Volume),
		})
	}
	return out
}
