package model

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is a single chart data point that may be absent.
// An absent value encodes as JSON null so chart libraries leave a gap.
type Value struct {
	Float float64
	Valid bool
}

// Null is the absent value.
var Null = Value{}

// V wraps f as a present value. NaN and ±Inf are treated as absent.
func V(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{Float: f, Valid: true}
}

// Values wraps every element of fs.
func Values(fs []float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = V(f)
	}
	return out
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Null
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = V(f)
	return nil
}
