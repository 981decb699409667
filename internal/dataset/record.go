package dataset

import (
	"math"
	"sort"
)

// numericFields are coerced to float64 at ingestion; every other column is kept as text.
var numericFields = []string{
	FieldAge, FieldMonthlyIncome, FieldTuition, FieldFinancialAid,
	FieldHousing, FieldFood, FieldTransportation, FieldBooksSupplies,
	FieldEntertainment, FieldPersonalCare, FieldTechnology, FieldHealthWellness,
	FieldMiscellaneous,
}

// Record is one parsed student row. It is immutable once built.
type Record struct {
	text map[string]string
	nums map[string]float64
}

// NewRecord builds a Record from raw column text. Known numeric fields are
// coerced with f (missing or invalid become 0) and derived fields are attached.
func NewRecord(raw map[string]string, f NumberFormat) Record {
	r := Record{
		text: make(map[string]string, len(raw)),
		nums: make(map[string]float64, len(numericFields)+3),
	}
	for k, v := range raw {
		r.text[k] = v
	}
	for _, name := range numericFields {
		r.nums[name] = f.Parse(raw[name])
	}
	r.attachDerived()
	return r
}

// RecordFrom builds a Record from already-typed values. Non-finite numbers become 0.
func RecordFrom(text map[string]string, nums map[string]float64) Record {
	r := Record{
		text: make(map[string]string, len(text)),
		nums: make(map[string]float64, len(numericFields)+3),
	}
	for k, v := range text {
		r.text[k] = v
	}
	for _, name := range numericFields {
		r.nums[name] = finite(nums[name])
	}
	r.attachDerived()
	return r
}

func (r *Record) attachDerived() {
	income := r.nums[FieldMonthlyIncome] - (r.nums[FieldTuition] - r.nums[FieldFinancialAid])
	r.nums[FieldIncome] = income
	r.nums[FieldDisposableIncome] = income
	r.nums[FieldDiscretionarySpending] = r.nums[FieldEntertainment] + r.nums[FieldPersonalCare] + r.nums[FieldMiscellaneous]
}

// Str returns the raw text of a categorical field, or "" when absent.
func (r Record) Str(field string) string { return r.text[field] }

// Num returns a numeric field, or 0 when absent.
func (r Record) Num(field string) float64 { return r.nums[field] }

// NumericFields returns the names of all numeric fields, sorted.
func (r Record) NumericFields() []string {
	out := make([]string, 0, len(r.nums))
	for k := range r.nums {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
