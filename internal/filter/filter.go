package filter

import (
	"strings"

	"github.com/KaramelBytes/spendlens/internal/dataset"
)

// Predicate decides whether a record stays in a filtered view.
type Predicate func(dataset.Record) bool

// All is the selection value that disables a filter.
const All = "all"

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Equals keeps records whose field text equals value exactly. An empty value
// or "all" returns nil, which Apply treats as no filter.
func Equals(field, value string) Predicate {
	if isAll(value) {
		return nil
	}
	return func(r dataset.Record) bool { return r.Str(field) == value }
}

// InRange keeps records whose numeric field lies in rg.
func InRange(field string, rg Range) Predicate {
	return func(r dataset.Record) bool { return rg.Contains(r.Num(field)) }
}

// Apply returns the records that satisfy every non-nil predicate. With no
// active predicate the input is returned unchanged. An empty result is valid.
func Apply(rs dataset.RecordSet, preds ...Predicate) dataset.RecordSet {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return rs
	}
	return rs.Where(func(r dataset.Record) bool {
		for _, p := range active {
			if !p(r) {
				return false
			}
		}
		return true
	})
}
