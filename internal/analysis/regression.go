package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regression is an ordinary least squares line with Pearson correlation.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// Correlation is NaN when ys has zero variance.
	Correlation float64 `json:"correlation"`
}

// Fit computes the least squares line of ys on xs. It fails with a
// DegenerateInputError when the series differ in length, hold fewer than two
// points, or xs has zero variance.
func Fit(xs, ys []float64) (Regression, error) {
	if len(xs) != len(ys) {
		return Regression{}, &DegenerateInputError{Reason: fmt.Sprintf("length mismatch %d != %d", len(xs), len(ys))}
	}
	if len(xs) < 2 {
		return Regression{}, &DegenerateInputError{Reason: fmt.Sprintf("need at least 2 points, have %d", len(xs))}
	}
	if floats.Min(xs) == floats.Max(xs) {
		return Regression{}, &DegenerateInputError{Reason: "zero variance in x"}
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := Regression{Slope: slope, Intercept: intercept, Correlation: math.NaN()}
	if floats.Min(ys) != floats.Max(ys) {
		fit.Correlation = clampUnit(stat.Correlation(xs, ys, nil))
	}
	return fit, nil
}

// HasCorrelation reports whether Correlation is defined.
func (r Regression) HasCorrelation() bool { return !math.IsNaN(r.Correlation) }

// MarshalJSON writes an undefined correlation as null.
func (r Regression) MarshalJSON() ([]byte, error) {
	out := struct {
		Slope       float64  `json:"slope"`
		Intercept   float64  `json:"intercept"`
		Correlation *float64 `json:"correlation"`
	}{Slope: r.Slope, Intercept: r.Intercept}
	if r.HasCorrelation() {
		c := r.Correlation
		out.Correlation = &c
	}
	return json.Marshal(out)
}

// At evaluates the line at x.
func (r Regression) At(x float64) float64 { return r.Slope*x + r.Intercept }

// TrendLine returns the two endpoints of the fitted line over [lo, hi].
func (r Regression) TrendLine(lo, hi float64) [2][2]float64 {
	return [2][2]float64{{lo, r.At(lo)}, {hi, r.At(hi)}}
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}

// Income classes used to colour the income scatter.
const (
	IncomeLow    = "Low Income"
	IncomeMedium = "Medium Income"
	IncomeHigh   = "High Income"
)

// IncomeClasses lists the classes in display order.
var IncomeClasses = []string{IncomeLow, IncomeMedium, IncomeHigh}

// ClassifyIncome splits the observed income range into thirds. Values below
// min+range/3 are low, above max-range/3 are high, the rest medium.
func ClassifyIncome(incomes []float64) []string {
	out := make([]string, len(incomes))
	if len(incomes) == 0 {
		return out
	}
	lo, hi := floats.Min(incomes), floats.Max(incomes)
	span := hi - lo
	lowThr := lo + span/3
	highThr := hi - span/3
	for i, v := range incomes {
		switch {
		case v < lowThr:
			out[i] = IncomeLow
		case v > highThr:
			out[i] = IncomeHigh
		default:
			out[i] = IncomeMedium
		}
	}
	return out
}

// IncomeFit regresses discretionary spending on income across rs.
func IncomeFit(rs dataset.RecordSet) (Regression, error) {
	return Fit(rs.Values(dataset.FieldIncome), rs.Values(dataset.FieldDiscretionarySpending))
}
