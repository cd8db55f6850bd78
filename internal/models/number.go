package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON numeric value that may also arrive as a numeric string
// (form inputs from the dashboard post "12" rather than 12). The incoming
// representation is kept until the normalizer rewrites it.
type Number struct {
	raw json.RawMessage
}

// NewNumber returns a Number holding a JSON number literal.
func NewNumber(f float64) *Number {
	return &Number{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// NumberFromString returns a Number holding a JSON string.
func NumberFromString(s string) *Number {
	b, _ := json.Marshal(s)
	return &Number{raw: b}
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty number")
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("expected number or string, got %s", b)
	}
	n.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON writes the value back in its current representation.
func (n Number) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// IsLiteral reports whether the value is a JSON number rather than a string.
func (n *Number) IsLiteral() bool {
	return n != nil && len(n.raw) > 0 && n.raw[0] != '"'
}

// Float64 parses the value. ok is false for non-numeric strings, NaN and Inf.
func (n *Number) Float64() (f float64, ok bool) {
	if n == nil || len(n.raw) == 0 {
		return 0, false
	}
	s := string(n.raw)
	if n.raw[0] == '"' {
		if err := json.Unmarshal(n.raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
