package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a finite number or the explicit undefined marker. It never holds
// NaN or an infinity.
type Value struct {
	number  float64
	defined bool
}

// Number wraps f. Non-finite input collapses to Undefined.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined()
	}
	return Value{number: f, defined: true}
}

// Undefined returns the marker for a value that has no numeric meaning, such
// as growth from a zero base or the first month of a series.
func Undefined() Value {
	return Value{}
}

// Float64 returns the number and whether it is defined.
func (v Value) Float64() (float64, bool) {
	return v.number, v.defined
}

func (v Value) IsDefined() bool {
	return v.defined
}

func (v Value) String() string {
	if !v.defined {
		return "undefined"
	}
	return strconv.FormatFloat(v.number, 'f', -1, 64)
}

// MarshalJSON encodes undefined as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.number)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Number(f)
	return nil
}
