package analytics

import (
	"errors"
	"testing"
)

func enriched(t *testing.T, symbol string, closes []float64) Leg {
	t.Helper()
	out, err := Enrich(series(symbol, closes))
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	return Leg{Symbol: symbol, Bars: out}
}

func TestCompare_IdenticalSeries(t *testing.T) {
	closes := randomWalk(30, 21)
	a := enriched(t, "AAA", closes)
	b := enriched(t, "BBB", closes)

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if c, ok := res.Correlation.Get(); !ok || !approx(c, 1, 1e-9) {
		t.Fatalf("correlation = %v, want 1", res.Correlation)
	}
	if len(res.Legs) != 2 {
		t.Fatalf("want 2 legs, got %d", len(res.Legs))
	}
	l, r := res.Legs[0], res.Legs[1]
	if l.Symbol != "AAA" || r.Symbol != "BBB" {
		t.Fatalf("leg order: %s, %s", l.Symbol, r.Symbol)
	}
	if l.Performance != r.Performance || l.Volatility != r.Volatility || l.CurrentPrice != r.CurrentPrice {
		t.Fatalf("legs differ: %+v vs %+v", l, r)
	}
	if l.CurrentPrice != closes[len(closes)-1] {
		t.Fatalf("current price = %v", l.CurrentPrice)
	}
}

func TestCompare_Values(t *testing.T) {
	a := enriched(t, "UP", []float64{100, 110, 120, 130})
	b := enriched(t, "DOWN", []float64{50, 45, 40, 35})

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if c, _ := res.Correlation.Get(); !approx(c, -1, 1e-9) {
		t.Fatalf("correlation = %v, want -1", c)
	}
	if p, _ := res.Legs[0].Performance.Get(); !approx(p, 30, 1e-9) {
		t.Fatalf("performance UP = %v, want 30", p)
	}
	if p, _ := res.Legs[1].Performance.Get(); !approx(p, -30, 1e-9) {
		t.Fatalf("performance DOWN = %v, want -30", p)
	}
	if !res.Legs[0].Volatility.Valid() {
		t.Fatalf("volatility should be defined with 4 returns")
	}
}

func TestCompare_Errors(t *testing.T) {
	full := enriched(t, "A", randomWalk(10, 1))
	short := enriched(t, "B", randomWalk(9, 2))

	cases := []struct {
		name string
		a, b Leg
		want error
	}{
		{name: "empty left", a: Leg{Symbol: "E"}, b: full, want: ErrNotFound},
		{name: "empty right", a: full, b: Leg{Symbol: "E"}, want: ErrNotFound},
		{name: "length mismatch", a: full, b: short, want: ErrLengthMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Compare(tc.a, tc.b)
			if !errors.Is(err, tc.want) || res != nil {
				t.Fatalf("want %v, got res=%v err=%v", tc.want, res, err)
			}
		})
	}
}

func TestCompare_Degenerate(t *testing.T) {
	one := enriched(t, "ONE", []float64{10})
	res, err := Compare(one, one)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Correlation.Valid() || res.Legs[0].Volatility.Valid() {
		t.Fatalf("single bar: correlation and volatility must be undefined, got %+v", res)
	}

	flat := enriched(t, "FLAT", []float64{5, 5, 5, 5})
	res, err = Compare(flat, enriched(t, "RW", randomWalk(4, 3)))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Correlation.Valid() {
		t.Fatalf("constant series: correlation must be undefined, got %v", res.Correlation)
	}
}
