package dataset

import (
	"fmt"
	"strings"
)

// Categorical fields.
const (
	FieldGender       = "gender"
	FieldMajor        = "major"
	FieldYearInSchool = "year_in_school"
)

// Numeric source fields.
const (
	FieldAge           = "age"
	FieldMonthlyIncome = "monthly_income"
	FieldTuition       = "tuition"
	FieldFinancialAid  = "financial_aid"
)

// Spending category fields.
const (
	FieldHousing        = "housing"
	FieldFood           = "food"
	FieldTransportation = "transportation"
	FieldBooksSupplies  = "books_supplies"
	FieldEntertainment  = "entertainment"
	FieldPersonalCare   = "personal_care"
	FieldTechnology     = "technology"
	FieldHealthWellness = "health_wellness"
	FieldMiscellaneous  = "miscellaneous"
)

// Derived fields, attached once when a Record is built.
const (
	FieldIncome                = "income"
	FieldDisposableIncome      = "disposable_income"
	FieldDiscretionarySpending = "discretionary_spending"
)

// Category describes one spending category. It is the single lookup table
// for every place that turns a label into a field name.
type Category struct {
	ID         string
	Label      string
	RadarLabel string
}

// Categories lists all nine spending categories in radar axis order.
var Categories = []Category{
	{ID: FieldHousing, Label: "Housing", RadarLabel: "Housing & Accommodation"},
	{ID: FieldFood, Label: "Food", RadarLabel: "Food & Dining"},
	{ID: FieldTransportation, Label: "Transportation", RadarLabel: "Transportation"},
	{ID: FieldBooksSupplies, Label: "Books & Supplies", RadarLabel: "Books & Academic Supplies"},
	{ID: FieldEntertainment, Label: "Entertainment", RadarLabel: "Entertainment & Leisure"},
	{ID: FieldPersonalCare, Label: "Personal Care", RadarLabel: "Personal Care & Grooming"},
	{ID: FieldTechnology, Label: "Technology", RadarLabel: "Technology"},
	{ID: FieldHealthWellness, Label: "Health & Wellness", RadarLabel: "Health & Wellness"},
	{ID: FieldMiscellaneous, Label: "Miscellaneous", RadarLabel: "Miscellaneous Expenses"},
}

// DiscretionaryFields are the three categories a visitor enters themselves.
var DiscretionaryFields = []string{FieldEntertainment, FieldPersonalCare, FieldMiscellaneous}

// CategoryIDs returns the field ids of all spending categories in axis order.
func CategoryIDs() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = c.ID
	}
	return out
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer("&", "", " ", "", "_", "", "-", "")
	return r.Replace(s)
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(Categories)*3)
	for _, c := range Categories {
		m[normalizeName(c.ID)] = c
		m[normalizeName(c.Label)] = c
		m[normalizeName(c.RadarLabel)] = c
	}
	return m
}()

// LookupCategory resolves an id, display label, or radar label to its Category.
// Matching ignores case, spaces, underscores, hyphens and ampersands.
func LookupCategory(name string) (Category, error) {
	c, ok := categoryIndex[normalizeName(name)]
	if !ok {
		return Category{}, fmt.Errorf("unknown spending category: %q", name)
	}
	return c, nil
}

// Label returns the display label for a field id, falling back to title case.
func Label(field string) string {
	if c, err := LookupCategory(field); err == nil {
		return c.Label
	}
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Enumerated group keys.
var (
	Genders = []string{"Male", "Female", "Non-binary"}
	Majors  = []string{"Computer Science", "Engineering", "Economics", "Biology", "Psychology"}
	Years   = []string{"Freshman", "Sophomore", "Junior", "Senior"}
)

// Dimension is a categorical field together with its fixed list of keys.
type Dimension struct {
	Name  string
	Field string
	Keys  []string
}

var (
	GenderDimension = Dimension{Name: "gender", Field: FieldGender, Keys: Genders}
	MajorDimension  = Dimension{Name: "major", Field: FieldMajor, Keys: Majors}
	YearDimension   = Dimension{Name: "year", Field: FieldYearInSchool, Keys: Years}
)

// LookupDimension resolves "gender", "major" or "year" (also "year_in_school").
func LookupDimension(name string) (Dimension, error) {
	switch normalizeName(name) {
	case "gender":
		return GenderDimension, nil
	case "major":
		return MajorDimension, nil
	case "year", "yearinschool":
		return YearDimension, nil
	default:
		return Dimension{}, fmt.Errorf("unknown dimension: %q (use gender, major or year)", name)
	}
}
