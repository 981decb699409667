package dataset

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat controls numeric coercion of raw cell text.
type NumberFormat struct {
	// DecimalSeparator defaults to '.' when 0.
	DecimalSeparator rune
	// ThousandsSeparator defaults to ',' when 0.
	ThousandsSeparator rune
}

// ParseNumber coerces raw text to a finite float. Empty, invalid or
// non-finite input yields 0.
func ParseNumber(s string) float64 {
	return NumberFormat{}.Parse(s)
}

// Parse coerces raw text using the receiver's separators.
func (f NumberFormat) Parse(s string) float64 {
	dec := f.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	thou := f.ThousandsSeparator
	if thou == 0 {
		thou = ','
	}
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	raw = strings.ReplaceAll(raw, " ", "")
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
