// Package indicator adapts the TA-Lib port to request-scoped price series.
//
// Every function validates its arguments, delegates the numeric work to
// go-talib and reshapes the library output into a Series that is exactly as
// long as the input. Positions inside the warm-up window are absent and
// encode as JSON null. Nothing here holds state between calls, so all
// functions are safe for concurrent use.
package indicator

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is one position of an indicator output.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a defined Value.
func Some(f float64) Value { return Value{Float: f, Valid: true} }

// Null is the absent marker used for warm-up positions.
var Null = Value{}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Null
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Series is an indicator output aligned to the input price series.
type Series []Value

// Defined returns the number of non-null positions.
func (s Series) Defined() int {
	n := 0
	for _, v := range s {
		if v.Valid {
			n++
		}
	}
	return n
}

// MACDResult holds the three MACD lines.
type MACDResult struct {
	MACD      Series `json:"macd"`
	Signal    Series `json:"signal"`
	Histogram Series `json:"histogram"`
}

// BandsResult holds the three Bollinger bands.
type BandsResult struct {
	Upper  Series `json:"upper"`
	Middle Series `json:"middle"`
	Lower  Series `json:"lower"`
}

func nulls(n int) Series {
	return make(Series, n)
}

// pad converts raw library output into a Series of length n. Positions
// before lookback are null. If raw is shorter than n it is treated as
// covering the last len(raw) positions.
func pad(raw []float64, n, lookback int) Series {
	out := make(Series, n)
	offset := n - len(raw)
	for i := range out {
		if i < lookback {
			continue
		}
		j := i - offset
		if j < 0 || j >= len(raw) {
			continue
		}
		out[i] = finite(raw[j])
	}
	return out
}

// finite wraps f, mapping NaN and Inf to Null.
func finite(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Some(f)
}
