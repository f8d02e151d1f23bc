package analytics

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSeries reports a series that is not strictly ascending by
	// date, repeats a date, or mixes symbols.
	ErrInvalidSeries = errors.New("invalid series")
	// ErrNotFound reports that no data exists for the requested symbol.
	ErrNotFound = errors.New("not found")
	// ErrLengthMismatch reports comparison inputs of different lengths.
	ErrLengthMismatch = errors.New("series length mismatch")
)

// InvalidSeriesError pinpoints the first offending bar of a series.
type InvalidSeriesError struct {
	Symbol string
	Index  int
	Date   time.Time
	Reason string
}

func (e *InvalidSeriesError) Error() string {
	return fmt.Sprintf("invalid series %s at index %d (%s): %s",
		e.Symbol, e.Index, e.Date.Format("2006-01-02"), e.Reason)
}

func (e *InvalidSeriesError) Unwrap() error { return ErrInvalidSeries }

// NotFoundError names the symbol without data. Err is the upstream cause,
// if any.
type NotFoundError struct {
	Symbol string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("symbol %s not found: %v", e.Symbol, e.Err)
	}
	return fmt.Sprintf("symbol %s not found", e.Symbol)
}

// Is makes errors.Is(err, ErrNotFound) hold while Unwrap still exposes the
// upstream cause.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// LengthMismatchError carries both series lengths.
type LengthMismatchError struct {
	Left, Right   string
	LeftN, RightN int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("series length mismatch: %s has %d bars, %s has %d",
		e.Left, e.LeftN, e.Right, e.RightN)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }
