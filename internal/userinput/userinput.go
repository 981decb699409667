// Package userinput holds a visitor's own discretionary spending.
package userinput

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/dataset"
)

// Input is the visitor's monthly spend on the three discretionary categories.
type Input struct {
	Entertainment float64 `json:"entertainment"`
	PersonalCare  float64 `json:"personal_care"`
	Miscellaneous float64 `json:"miscellaneous"`
}

// Query parameter names.
const (
	ParamEntertainment = "entertainment"
	ParamPersonalCare  = "personal-care"
	ParamMiscellaneous = "miscellaneous"
)

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// "12abc" style inputs keep their leading number.
		v = leadingNumber(s)
	}
	return clean(v)
}

var leadingNumberRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

func leadingNumber(s string) float64 {
	m := leadingNumberRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func clean(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FromQuery reads an Input from a raw URL query string. Missing or
// unparsable values become 0.
func FromQuery(rawQuery string) Input {
	q, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return Input{
		Entertainment: parseAmount(q.Get(ParamEntertainment)),
		PersonalCare:  parseAmount(q.Get(ParamPersonalCare)),
		Miscellaneous: parseAmount(q.Get(ParamMiscellaneous)),
	}
}

// FromBlob decodes a stored Input. A malformed blob yields zeros.
func FromBlob(b []byte) Input {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return Input{}
	}
	num := func(key string) float64 {
		switch v := raw[key].(type) {
		case float64:
			return clean(v)
		case string:
			return parseAmount(v)
		default:
			return 0
		}
	}
	return Input{
		Entertainment: num(dataset.FieldEntertainment),
		PersonalCare:  num(dataset.FieldPersonalCare),
		Miscellaneous: num(dataset.FieldMiscellaneous),
	}
}

// Blob encodes the Input in its stored shape.
func (in Input) Blob() ([]byte, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	return b, nil
}

// Query encodes the Input as a URL query string.
func (in Input) Query() string {
	v := url.Values{}
	v.Set(ParamEntertainment, strconv.FormatFloat(in.Entertainment, 'f', -1, 64))
	v.Set(ParamPersonalCare, strconv.FormatFloat(in.PersonalCare, 'f', -1, 64))
	v.Set(ParamMiscellaneous, strconv.FormatFloat(in.Miscellaneous, 'f', -1, 64))
	return v.Encode()
}

// Total is the sum of the three categories.
func (in Input) Total() float64 { return in.Entertainment + in.PersonalCare + in.Miscellaneous }

// IsZero reports whether nothing was entered.
func (in Input) IsZero() bool { return in == Input{} }

// Values maps each category field id to its amount.
func (in Input) Values() map[string]float64 {
	return map[string]float64{
		dataset.FieldEntertainment: in.Entertainment,
		dataset.FieldPersonalCare:  in.PersonalCare,
		dataset.FieldMiscellaneous: in.Miscellaneous,
	}
}

// Series returns the Input as a radar series keyed by radar label.
func (in Input) Series() map[string]float64 {
	out := make(map[string]float64, 3)
	for field, v := range in.Values() {
		c, err := dataset.LookupCategory(field)
		if err != nil {
			continue
		}
		out[c.RadarLabel] = v
	}
	return out
}

// Difference compares one category against its average.
type Difference struct {
	Category   string  `json:"category"`
	User       float64 `json:"user"`
	Average    float64 `json:"average"`
	Difference float64 `json:"difference"`
	// Multiplier is User/Average; zero when Comparable is false.
	Multiplier float64 `json:"multiplier"`
	Comparable bool    `json:"comparable"`
}

// More reports whether the visitor spends above average.
func (d Difference) More() bool { return d.Difference > 0 }

// BiggestDifference returns the category whose amount is furthest from its
// average in absolute terms. The first category wins a tie. When that
// category's average is 0 the result is not comparable.
func BiggestDifference(in Input, averages map[string]float64) Difference {
	vals := in.Values()
	var best Difference
	for i, field := range dataset.DiscretionaryFields {
		d := Difference{
			Category:   field,
			User:       vals[field],
			Average:    averages[field],
			Difference: vals[field] - averages[field],
		}
		if i == 0 || math.Abs(d.Difference) > math.Abs(best.Difference) {
			best = d
		}
	}
	if best.Average != 0 {
		best.Multiplier = best.User / best.Average
		best.Comparable = true
	}
	return best
}
