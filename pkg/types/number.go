package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a telemetry value reported by the gateway. The PVS encodes most
// numbers as JSON strings and occasionally emits sentinel text instead of a
// value, so decoding never fails: anything that isn't a finite number is
// stored as invalid.
type Number struct {
	v     float64
	valid bool
}

// NewNumber returns a valid Number holding f.
func NewNumber(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}
	}
	return Number{v: f, valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	*n = NewNumber(f)
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid numbers encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// Valid reports whether the value parsed as a finite number.
func (n Number) Valid() bool {
	return n.valid
}

// Float64 returns the value, or 0 if it is invalid.
func (n Number) Float64() float64 {
	if !n.valid {
		return 0
	}
	return n.v
}

// Ptr returns a pointer to the value, or nil if it is invalid.
func (n Number) Ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.v
	return &v
}
