package analysis

import (
	"sort"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TotalField is the key under which GroupMeans reports the mean of per-record sums.
const TotalField = "total"

// GroupMeans partitions rs on the exact text of groupField and returns, per
// non-empty partition, the arithmetic mean of each requested numeric field.
// Groups with no records are absent from the result, never zero.
//
// With withTotal set, the TotalField entry is the mean of each record's sum
// over fields, not the sum of the per-field means.
func GroupMeans(rs dataset.RecordSet, groupField string, fields []string, withTotal bool) map[string]map[string]float64 {
	type gAcc struct {
		cols   [][]float64
		totals []float64
	}
	groups := map[string]*gAcc{}
	rs.Each(func(r dataset.Record) {
		key := r.Str(groupField)
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{cols: make([][]float64, len(fields))}
			groups[key] = ga
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			row[i] = r.Num(f)
			ga.cols[i] = append(ga.cols[i], row[i])
		}
		if withTotal {
			ga.totals = append(ga.totals, floats.Sum(row))
		}
	})

	out := make(map[string]map[string]float64, len(groups))
	for key, ga := range groups {
		m := make(map[string]float64, len(fields)+1)
		for i, f := range fields {
			m[f] = orderedMean(ga.cols[i])
		}
		if withTotal {
			m[TotalField] = orderedMean(ga.totals)
		}
		out[key] = m
	}
	return out
}

// orderedMean sorts before summing so the result does not depend on record order.
func orderedMean(vals []float64) float64 {
	sort.Float64s(vals)
	return stat.Mean(vals, nil)
}

// GroupRow is one group's means, in a caller-chosen order.
type GroupRow struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values"`
}

// OrderedGroups lists the groups named in keys, in that order, skipping the
// ones absent from means.
func OrderedGroups(means map[string]map[string]float64, keys []string) []GroupRow {
	out := make([]GroupRow, 0, len(keys))
	for _, k := range keys {
		if v, ok := means[k]; ok {
			out = append(out, GroupRow{Key: k, Values: v})
		}
	}
	return out
}

// Shares converts a row of means into percentages of the row's total over
// fields. It reports false when that total is zero.
func Shares(row map[string]float64, fields []string) (map[string]float64, bool) {
	var total float64
	for _, f := range fields {
		total += row[f]
	}
	if total == 0 {
		return nil, false
	}
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f] = row[f] / total * 100
	}
	return out, true
}

// FieldMeans returns the overall mean of each field across rs. It reports
// false for an empty set.
func FieldMeans(rs dataset.RecordSet, fields []string) (map[string]float64, bool) {
	if rs.Empty() {
		return nil, false
	}
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f] = orderedMean(rs.Values(f))
	}
	return out, true
}

// MeanOf returns the arithmetic mean of values.
func MeanOf(values []float64) (float64, error) {
	m, err := stats.Mean(values)
	if err != nil {
		return 0, &EmptySampleError{Stat: "mean"}
	}
	return m, nil
}

// DiffFromMean returns how far value sits from mean, as a percentage of mean.
// It reports false when mean is zero.
func DiffFromMean(value, mean float64) (float64, bool) {
	if mean == 0 {
		return 0, false
	}
	return (value - mean) / mean * 100, true
}
