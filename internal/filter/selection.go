package filter

import (
	"github.com/KaramelBytes/spendlens/internal/dataset"
)

// Selection is the set of user-facing filter choices. Empty or "all" fields
// do not filter.
type Selection struct {
	Gender string `json:"gender,omitempty"`
	Income string `json:"income,omitempty"`
	Year   string `json:"year,omitempty"`
	Major  string `json:"major,omitempty"`
}

// Active reports whether any field narrows the data.
func (s Selection) Active() bool {
	return !isAll(s.Gender) || !isAll(s.Income) || !isAll(s.Year) || !isAll(s.Major)
}

// Predicates resolves the selection against a bracket table. The income
// bracket applies to disposable income.
func (s Selection) Predicates(brackets Brackets) ([]Predicate, error) {
	preds := []Predicate{
		Equals(dataset.FieldGender, s.Gender),
		Equals(dataset.FieldYearInSchool, s.Year),
		Equals(dataset.FieldMajor, s.Major),
	}
	if !isAll(s.Income) {
		b, err := brackets.Lookup(s.Income)
		if err != nil {
			return nil, err
		}
		preds = append(preds, InRange(dataset.FieldDisposableIncome, b.Range))
	}
	return preds, nil
}

// Select applies the selection to rs.
func (s Selection) Select(rs dataset.RecordSet, brackets Brackets) (dataset.RecordSet, error) {
	preds, err := s.Predicates(brackets)
	if err != nil {
		return dataset.RecordSet{}, err
	}
	return Apply(rs, preds...), nil
}
