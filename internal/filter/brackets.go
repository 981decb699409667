package filter

import (
	"fmt"
	"math"
	"strings"
)

// Range is the half-open interval [Min, Max). Use ±Inf for unbounded ends.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the range.
func (rg Range) Contains(v float64) bool { return v >= rg.Min && v < rg.Max }

// Bracket is a labelled income range.
type Bracket struct {
	Label string
	Range
}

// NewBracket builds a Bracket from optional bounds; nil means unbounded.
func NewBracket(label string, min, max *float64) Bracket {
	b := Bracket{Label: label, Range: Range{Min: math.Inf(-1), Max: math.Inf(1)}}
	if min != nil {
		b.Min = *min
	}
	if max != nil {
		b.Max = *max
	}
	return b
}

// Brackets is an ordered bracket table.
type Brackets []Bracket

// DefaultBrackets is the disposable income table used by the radar filter.
var DefaultBrackets = Brackets{
	{Label: "0-75", Range: Range{Min: math.Inf(-1), Max: 75}},
	{Label: "75-150", Range: Range{Min: 75, Max: 150}},
	{Label: "150+", Range: Range{Min: 150, Max: math.Inf(1)}},
}

// Lookup finds a bracket by label, ignoring case and surrounding space.
func (bs Brackets) Lookup(label string) (Bracket, error) {
	label = strings.TrimSpace(label)
	for _, b := range bs {
		if strings.EqualFold(b.Label, label) {
			return b, nil
		}
	}
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Label
	}
	return Bracket{}, fmt.Errorf("unknown income bracket %q (available: %s)", label, strings.Join(names, ", "))
}

// Classify returns the label of the first bracket containing v.
func (bs Brackets) Classify(v float64) (string, bool) {
	for _, b := range bs {
		if b.Contains(v) {
			return b.Label, true
		}
	}
	return "", false
}

// Validate checks that the brackets are ordered, non-empty and contiguous.
func (bs Brackets) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("income brackets: table is empty")
	}
	for i, b := range bs {
		if b.Label == "" {
			return fmt.Errorf("income brackets: entry %d has no label", i)
		}
		if !(b.Min < b.Max) {
			return fmt.Errorf("income brackets: %q has min %v >= max %v", b.Label, b.Min, b.Max)
		}
		if i > 0 && bs[i-1].Max != b.Min {
			return fmt.Errorf("income brackets: gap or overlap between %q and %q", bs[i-1].Label, b.Label)
		}
	}
	return nil
}
