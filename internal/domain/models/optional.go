package models

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"math"
	"strconv"
)

// OptFloat is a float64 that may be undefined.
//
// Indicators that need trailing history (moving averages, 52-week range,
// volatility, RSI) are undefined until enough bars exist. OptFloat keeps that
// state explicit instead of encoding it as 0 or NaN:
//   - JSON: undefined values marshal to null.
//   - SQL: undefined values are stored as NULL and NULL scans back as undefined.
//
// The zero value is undefined.
type OptFloat struct {
	value float64
	valid bool
}

// Some returns a defined value. NaN and ±Inf are not representable and
// yield an undefined value instead.
func Some(v float64) OptFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptFloat{}
	}
	return OptFloat{value: v, valid: true}
}

// None returns an undefined value.
func None() OptFloat { return OptFloat{} }

// Get returns the value and whether it is defined.
func (o OptFloat) Get() (float64, bool) { return o.value, o.valid }

// Valid reports whether the value is defined.
func (o OptFloat) Valid() bool { return o.valid }

// Or returns the value, or def when undefined.
func (o OptFloat) Or(def float64) float64 {
	if !o.valid {
		return def
	}
	return o.value
}

func (o OptFloat) String() string {
	if !o.valid {
		return "undefined"
	}
	return strconv.FormatFloat(o.value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Scan implements sql.Scanner.
func (o *OptFloat) Scan(src any) error {
	var n sql.NullFloat64
	if err := n.Scan(src); err != nil {
		return err
	}
	if !n.Valid {
		*o = OptFloat{}
		return nil
	}
	*o = Some(n.Float64)
	return nil
}

// Value implements driver.Valuer.
func (o OptFloat) Value() (driver.Value, error) {
	if !o.valid {
		return nil, nil
	}
	return o.value, nil
}
