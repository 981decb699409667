package filter

import (
	"math"
	"math/rand"
	"testing"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(gender, year, major string, income float64) dataset.Record {
	return dataset.RecordFrom(
		map[string]string{
			dataset.FieldGender:       gender,
			dataset.FieldYearInSchool: year,
			dataset.FieldMajor:        major,
		},
		map[string]float64{dataset.FieldMonthlyIncome: income},
	)
}

func students() dataset.RecordSet {
	return dataset.NewRecordSet([]dataset.Record{
		student("Male", "Freshman", "Biology", 50),
		student("Female", "Junior", "Economics", 75),
		student("Female", "Freshman", "Biology", 149.99),
		student("Non-binary", "Senior", "Engineering", 150),
		student("Male", "Junior", "Economics", 900),
	})
}

func TestApplyWithoutPredicatesIsIdentity(t *testing.T) {
	rs := students()
	assert.Equal(t, rs, Apply(rs))
	assert.Equal(t, rs, Apply(rs, nil, Equals(dataset.FieldGender, "all"), Equals(dataset.FieldMajor, "")))
}

func TestApplyOverEmptySetIsEmpty(t *testing.T) {
	empty := dataset.NewRecordSet(nil)
	out := Apply(empty,
		Equals(dataset.FieldGender, "Female"),
		InRange(dataset.FieldDisposableIncome, Range{Min: 0, Max: math.Inf(1)}),
	)
	assert.True(t, out.Empty())
	assert.Equal(t, 0, out.Len())

	sel, err := Selection{Gender: "Male", Income: "150+"}.Select(empty, DefaultBrackets)
	require.NoError(t, err)
	assert.True(t, sel.Empty())
}

func TestApplyComposesWithAnd(t *testing.T) {
	out := Apply(students(),
		Equals(dataset.FieldGender, "Female"),
		Equals(dataset.FieldYearInSchool, "Freshman"),
	)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Biology", out.At(0).Str(dataset.FieldMajor))
}

func TestApplyEmptyResultIsValid(t *testing.T) {
	out := Apply(students(), Equals(dataset.FieldGender, "female"))
	assert.True(t, out.Empty())
	assert.Equal(t, 5, students().Len())
}

func TestRangeIsHalfOpen(t *testing.T) {
	rg := Range{Min: 75, Max: 150}
	assert.True(t, rg.Contains(75))
	assert.True(t, rg.Contains(149.99))
	assert.False(t, rg.Contains(150))
	assert.False(t, rg.Contains(74.999))
}

func TestDefaultBracketsPartitionTheLine(t *testing.T) {
	require.NoError(t, DefaultBrackets.Validate())
	values := []float64{-1e12, -5, 0, 74.999, 75, 75.001, 149.999, 150, 1e12, math.MaxFloat64, -math.MaxFloat64}
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		values = append(values, r.NormFloat64()*200+100)
	}
	for _, v := range values {
		hits := 0
		for _, b := range DefaultBrackets {
			if b.Contains(v) {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "value %v", v)
	}
	label, ok := DefaultBrackets.Classify(75)
	require.True(t, ok)
	assert.Equal(t, "75-150", label)
}

func TestBracketsValidate(t *testing.T) {
	lo, hi := 0.0, 100.0
	gap := Brackets{NewBracket("a", nil, &lo), NewBracket("b", &hi, nil)}
	assert.Error(t, gap.Validate())
	assert.Error(t, Brackets{}.Validate())
	inverted := Brackets{{Label: "x", Range: Range{Min: 5, Max: 5}}}
	assert.Error(t, inverted.Validate())
}

func TestNewBracketUnbounded(t *testing.T) {
	b := NewBracket("any", nil, nil)
	assert.True(t, math.IsInf(b.Min, -1))
	assert.True(t, math.IsInf(b.Max, 1))
	assert.True(t, b.Contains(0))
}

func TestSelectionPredicates(t *testing.T) {
	sel := Selection{Gender: "all", Income: "75-150"}
	out, err := sel.Select(students(), DefaultBrackets)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	for i := 0; i < out.Len(); i++ {
		assert.True(t, out.At(i).Num(dataset.FieldDisposableIncome) >= 75)
		assert.True(t, out.At(i).Num(dataset.FieldDisposableIncome) < 150)
	}

	sel = Selection{Income: "0-75", Gender: "Male"}
	out, err = sel.Select(students(), DefaultBrackets)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestSelectionUnknownBracket(t *testing.T) {
	_, err := Selection{Income: "1000+"}.Predicates(DefaultBrackets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown income bracket")
}

func TestSelectionActive(t *testing.T) {
	assert.False(t, Selection{}.Active())
	assert.False(t, Selection{Gender: "All", Year: " "}.Active())
	assert.True(t, Selection{Major: "Biology"}.Active())
}
