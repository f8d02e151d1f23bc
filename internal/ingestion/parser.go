package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

const csvDateLayout = "2006-01-02"

// expectedHeaders enforces strict column ordering for Yahoo Finance history exports.
// If the header doesn't match EXACTLY (order + count), the import must fail.
var expectedHeaders = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// parseFile opens, validates and parses one history export into bars of symbol.
// It fails on:
//   - header not matching expected order/length
//   - malformed numbers or dates
//   - unrecoverable I/O errors
//
// It skips rows where Yahoo wrote "null" for a missing session. Bars are
// returned in file order; ordering is checked by the caller.
func parseFile(ctx context.Context, path, symbol string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // checked explicitly per line
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	bars := make([]models.Bar, 0, 256)
	lineNumber := 1 // header already read
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		b, ok, err := recordToBar(rec, symbol)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if ok {
			bars = append(bars, b)
		}
	}
	return bars, nil
}

// recordToBar converts a single CSV record (already validated length==7)
// into a models.Bar. ok is false for placeholder rows containing "null".
//
// Column order:
//
//	0 Date       → Date (DATE, "2006-01-02")
//	1 Open       → Open
//	2 High       → High
//	3 Low        → Low
//	4 Close      → Close
//	5 Adj Close  → ignored
//	6 Volume     → Volume (integer, a float form is truncated)
func recordToBar(rec []string, symbol string) (b models.Bar, ok bool, err error) {
	for _, s := range rec {
		if strings.EqualFold(strings.TrimSpace(s), "null") {
			return b, false, nil
		}
	}

	d, err := time.Parse(csvDateLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return b, false, fmt.Errorf("invalid Date: %v", err)
	}
	b.Symbol = symbol
	b.Date = models.DateOnly(d)

	prices := []struct {
		name string
		dst  *float64
		raw  string
	}{
		{"Open", &b.Open, rec[1]},
		{"High", &b.High, rec[2]},
		{"Low", &b.Low, rec[3]},
		{"Close", &b.Close, rec[4]},
	}
	for _, p := range prices {
		v, err := strconv.ParseFloat(strings.TrimSpace(p.raw), 64)
		if err != nil {
			return b, false, fmt.Errorf("invalid %s: %v", p.name, err)
		}
		*p.dst = v
	}

	vol := strings.TrimSpace(rec[6])
	if vol != "" {
		n, err := strconv.ParseInt(vol, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(vol, 64)
			if ferr != nil {
				return b, false, fmt.Errorf("invalid Volume: %v", err)
			}
			n = int64(f)
		}
		b.Volume = n
	}
	return b, true, nil
}
