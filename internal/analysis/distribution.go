package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// DistributionSummary is the box-plot bundle for one numeric sample.
type DistributionSummary struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Mean         float64 `json:"mean"`
	IQR          float64 `json:"iqr"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
}

// Summarize computes the DistributionSummary of sample. Quartiles and median
// all come from Quantile. Whiskers extend 1.5 IQR past the quartiles but are
// clipped to the observed min and max.
func Summarize(sample []float64) (DistributionSummary, error) {
	if len(sample) == 0 {
		return DistributionSummary{}, &EmptySampleError{Stat: "summary"}
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	data := stats.Float64Data(sorted)
	lo, _ := data.Min()
	hi, _ := data.Max()
	mean, _ := data.Mean()
	if lo == hi {
		// Keep the degenerate case exact; summing can drift in the last bit.
		mean = lo
	}
	s := DistributionSummary{
		Min:    lo,
		Max:    hi,
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Mean:   mean,
	}
	s.IQR = s.Q3 - s.Q1
	s.LowerWhisker = math.Max(s.Min, s.Q1-1.5*s.IQR)
	s.UpperWhisker = math.Min(s.Max, s.Q3+1.5*s.IQR)
	return s, nil
}

// Quantile returns the p-quantile of an ascending sample by linear
// interpolation between order statistics at rank p*(n-1).
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}

// PercentileRank returns the share of sample strictly below value, in [0,100].
// Elements equal to value are not counted.
func PercentileRank(sample []float64, value float64) (float64, error) {
	if len(sample) == 0 {
		return 0, &EmptySampleError{Stat: "percentile rank"}
	}
	below := 0
	for _, x := range sample {
		if x < value {
			below++
		}
	}
	return float64(below) / float64(len(sample)) * 100, nil
}

// Standing buckets a percentile rank into quarters.
type Standing int

const (
	StandingLowerThanMost Standing = iota
	StandingBelowAverage
	StandingAboveAverage
	StandingHigherThanMost
)

// StandingOf classifies a percentile rank.
func StandingOf(percentile float64) Standing {
	switch {
	case percentile < 25:
		return StandingLowerThanMost
	case percentile < 50:
		return StandingBelowAverage
	case percentile < 75:
		return StandingAboveAverage
	default:
		return StandingHigherThanMost
	}
}

func (s Standing) String() string {
	switch s {
	case StandingLowerThanMost:
		return "lower than most students"
	case StandingBelowAverage:
		return "below average"
	case StandingAboveAverage:
		return "above average"
	case StandingHigherThanMost:
		return "higher than most students"
	default:
		return "unknown"
	}
}
