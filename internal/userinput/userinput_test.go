package userinput

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	in := FromQuery("?entertainment=120&personal-care=45.5&miscellaneous=abc")
	assert.Equal(t, Input{Entertainment: 120, PersonalCare: 45.5}, in)
	assert.InDelta(t, 165.5, in.Total(), 1e-12)

	assert.Equal(t, Input{}, FromQuery(""))
	assert.Equal(t, Input{}, FromQuery("entertainment=NaN&personal-care=Inf&miscellaneous=%zz"))
	assert.Equal(t, 12.0, FromQuery("entertainment=12abc").Entertainment)
	assert.Equal(t, 3.5, FromQuery("personal-care=3.5e0kg").PersonalCare)
	assert.Equal(t, -0.25, FromQuery("miscellaneous=-.25x").Miscellaneous)
	assert.Equal(t, 7.0, FromQuery("entertainment=7"+strings.Repeat("z", 1<<20)).Entertainment)
	assert.Equal(t, 0.0, FromQuery("entertainment="+strings.Repeat("z", 1<<20)).Entertainment)
}

func TestFromBlob(t *testing.T) {
	in := FromBlob([]byte(`{"entertainment":100,"personal_care":"30","miscellaneous":null}`))
	assert.Equal(t, Input{Entertainment: 100, PersonalCare: 30}, in)
	assert.Equal(t, Input{}, FromBlob([]byte("not json")))
	assert.Equal(t, Input{}, FromBlob(nil))
}

func TestBlobAndQueryRoundTrip(t *testing.T) {
	in := Input{Entertainment: 1.5, PersonalCare: 2, Miscellaneous: 3.25}
	b, err := in.Blob()
	require.NoError(t, err)
	assert.JSONEq(t, `{"entertainment":1.5,"personal_care":2,"miscellaneous":3.25}`, string(b))
	assert.Equal(t, in, FromBlob(b))
	assert.Equal(t, in, FromQuery(in.Query()))
}

func TestSeriesUsesRadarLabels(t *testing.T) {
	s := Input{Entertainment: 1, PersonalCare: 2, Miscellaneous: 3}.Series()
	assert.Equal(t, map[string]float64{
		"Entertainment & Leisure":  1,
		"Personal Care & Grooming": 2,
		"Miscellaneous Expenses":   3,
	}, s)
}

func TestBiggestDifference(t *testing.T) {
	avg := map[string]float64{
		dataset.FieldEntertainment: 100,
		dataset.FieldPersonalCare:  50,
		dataset.FieldMiscellaneous: 40,
	}
	d := BiggestDifference(Input{Entertainment: 90, PersonalCare: 150, Miscellaneous: 40}, avg)
	assert.Equal(t, dataset.FieldPersonalCare, d.Category)
	assert.True(t, d.More())
	assert.True(t, d.Comparable)
	assert.InDelta(t, 3, d.Multiplier, 1e-12)

	tie := BiggestDifference(Input{Entertainment: 110, PersonalCare: 40, Miscellaneous: 40}, avg)
	assert.Equal(t, dataset.FieldEntertainment, tie.Category, "first category wins a tie")
}

func TestBiggestDifferenceZeroAverage(t *testing.T) {
	d := BiggestDifference(Input{Miscellaneous: 10}, map[string]float64{})
	assert.Equal(t, dataset.FieldMiscellaneous, d.Category)
	assert.False(t, d.Comparable)
	assert.Equal(t, 0.0, d.Multiplier)
}
