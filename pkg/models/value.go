// Package models defines the ingestion-boundary data types shared by every
// stage of the analysis pipeline: cleaned statement snapshots, price history,
// and the explicit optional Value used for derived quantities.
package models

import (
	"encoding/json"
	"math"
)

// Value is an explicit optional for a derived financial quantity.
// A Value is either a finite number or "not determinable" — there is no
// third state, and NaN/Inf can never leak out of one.
type Value struct {
	val float64
	ok  bool
}

// Of wraps a finite number. Non-finite inputs collapse to NotDeterminable
// so arithmetic upstream can stay unguarded.
func Of(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{val: v, ok: true}
}

// NotDeterminable is the marker for "cannot compute from available data".
// Distinct from zero.
func NotDeterminable() Value {
	return Value{}
}

// Valid reports whether the value was determinable.
func (v Value) Valid() bool {
	return v.ok
}

// Get returns the underlying number and whether it is determinable.
func (v Value) Get() (float64, bool) {
	return v.val, v.ok
}

// Float returns the underlying number, or 0 for a not-determinable value.
// Callers that care about the distinction must check Valid first.
func (v Value) Float() float64 {
	return v.val
}

// MarshalJSON encodes a determinable value as a plain number and a
// not-determinable one as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.val)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Of(f)
	return nil
}

// MeanOf averages the determinable values among the inputs.
// Returns NotDeterminable when none are determinable.
func MeanOf(values ...Value) Value {
	var sum float64
	var n int
	for _, v := range values {
		if v.ok {
			sum += v.val
			n++
		}
	}
	if n == 0 {
		return Value{}
	}
	return Of(sum / float64(n))
}
