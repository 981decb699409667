// Package explorer computes the derived data behind each spending view.
// An Explorer holds the loaded records and settings; every view method takes
// the Selection to apply and returns a freshly built result.
package explorer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/analysis"
	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/KaramelBytes/spendlens/internal/filter"
	"github.com/KaramelBytes/spendlens/internal/radar"
	"github.com/KaramelBytes/spendlens/internal/userinput"
	"github.com/sirupsen/logrus"
)

// Options configures an Explorer. Zero values fall back to defaults.
type Options struct {
	Brackets    filter.Brackets
	OuterRadius float64
	Levels      int
	Logger      logrus.FieldLogger
}

// Explorer answers view queries over one RecordSet.
type Explorer struct {
	records  dataset.RecordSet
	brackets filter.Brackets
	radius   float64
	levels   int
	log      logrus.FieldLogger
}

// New builds an Explorer over rs.
func New(rs dataset.RecordSet, opt Options) *Explorer {
	e := &Explorer{
		records:  rs,
		brackets: opt.Brackets,
		radius:   opt.OuterRadius,
		levels:   opt.Levels,
		log:      opt.Logger,
	}
	if len(e.brackets) == 0 {
		e.brackets = filter.DefaultBrackets
	}
	if e.radius <= 0 {
		e.radius = 200
	}
	if e.levels <= 0 {
		e.levels = 5
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// Records returns the full, unfiltered set.
func (e *Explorer) Records() dataset.RecordSet { return e.records }

// Brackets returns the income bracket table in use.
func (e *Explorer) Brackets() filter.Brackets { return e.brackets }

func (e *Explorer) selectRecords(sel filter.Selection) (dataset.RecordSet, error) {
	rs, err := sel.Select(e.records, e.brackets)
	if err != nil {
		return dataset.RecordSet{}, err
	}
	e.log.WithFields(logrus.Fields{
		"gender": sel.Gender, "income": sel.Income, "year": sel.Year, "major": sel.Major,
		"kept": rs.Len(), "of": e.records.Len(),
	}).Debug("selection applied")
	return rs, nil
}

// BoxView is the discretionary spending distribution with the visitor's
// position in it.
type BoxView struct {
	Selection  filter.Selection             `json:"selection"`
	Sample     int                          `json:"sample"`
	Summary    analysis.DistributionSummary `json:"summary"`
	Input      *userinput.Input             `json:"input,omitempty"`
	UserTotal  float64                      `json:"user_total"`
	Percentile float64                      `json:"percentile"`
	Standing   string                       `json:"standing,omitempty"`
}

// DiscretionaryBox summarizes per-student discretionary spending. With in
// set, the visitor's total is placed against the sample.
func (e *Explorer) DiscretionaryBox(sel filter.Selection, in *userinput.Input) (BoxView, error) {
	rs, err := e.selectRecords(sel)
	if err != nil {
		return BoxView{}, err
	}
	sample := rs.Values(dataset.FieldDiscretionarySpending)
	sum, err := analysis.Summarize(sample)
	if err != nil {
		return BoxView{}, fmt.Errorf("discretionary spending: %w", err)
	}
	v := BoxView{Selection: sel, Sample: len(sample), Summary: sum}
	if in != nil {
		cp := *in
		v.Input = &cp
		v.UserTotal = in.Total()
		v.Percentile, _ = analysis.PercentileRank(sample, v.UserTotal)
		v.Standing = analysis.StandingOf(v.Percentile).String()
	}
	return v, nil
}

// Bar is one group's bar values.
type Bar struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values"`
	Total  float64            `json:"total"`
	// ZeroTotal marks a normalized group that spent nothing; Values is nil.
	ZeroTotal bool `json:"zero_total,omitempty"`
	// Filled for single-field views.
	DiffFromAverage *float64 `json:"diff_from_average,omitempty"`
	Rank            int      `json:"rank,omitempty"`
}

// GroupBarsView holds average spending per group of one dimension.
type GroupBarsView struct {
	Selection  filter.Selection `json:"selection"`
	Dimension  string           `json:"dimension"`
	Fields     []string         `json:"fields"`
	Normalized bool             `json:"normalized"`
	Bars       []Bar            `json:"bars"`
	// Average is the mean bar value across groups for single-field views.
	Average *float64 `json:"average,omitempty"`
	// Ranked is the number of bars that carry a rank.
	Ranked int `json:"ranked,omitempty"`
}

// resolveFields turns a discretionary category name (or "all"/"") into
// field ids.
func resolveFields(field string) ([]string, error) {
	if field == "" || strings.EqualFold(field, filter.All) {
		return slices.Clone(dataset.DiscretionaryFields), nil
	}
	c, err := dataset.LookupCategory(field)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(dataset.DiscretionaryFields, c.ID) {
		return nil, fmt.Errorf("%s is not a discretionary category (use entertainment, personal_care or miscellaneous)", c.Label)
	}
	return []string{c.ID}, nil
}

// GroupBars averages discretionary spending per group of dim. An empty or
// "all" field covers the three discretionary categories; with normalize set
// each bar is a percentage of its group's discretionary total.
func (e *Explorer) GroupBars(sel filter.Selection, dim dataset.Dimension, field string, normalize bool) (GroupBarsView, error) {
	fields, err := resolveFields(field)
	if err != nil {
		return GroupBarsView{}, err
	}
	rs, err := e.selectRecords(sel)
	if err != nil {
		return GroupBarsView{}, err
	}
	all := dataset.DiscretionaryFields
	means := analysis.GroupMeans(rs, dim.Field, all, true)
	v := GroupBarsView{Selection: sel, Dimension: dim.Name, Fields: fields, Normalized: normalize}
	for _, row := range analysis.OrderedGroups(means, dim.Keys) {
		src := row.Values
		if normalize {
			shares, ok := analysis.Shares(row.Values, all)
			if !ok {
				e.log.WithField("group", row.Key).Debug("zero total, no shares")
				v.Bars = append(v.Bars, Bar{Key: row.Key, ZeroTotal: true})
				continue
			}
			src = shares
		}
		b := Bar{Key: row.Key, Values: make(map[string]float64, len(fields))}
		for _, f := range fields {
			b.Values[f] = src[f]
			b.Total += src[f]
		}
		v.Bars = append(v.Bars, b)
	}
	if len(fields) == 1 {
		var vals []float64
		var gv []analysis.GroupValue
		for _, b := range v.Bars {
			if b.ZeroTotal {
				continue
			}
			vals = append(vals, b.Total)
			gv = append(gv, analysis.GroupValue{Key: b.Key, Value: b.Total})
		}
		if len(vals) == 0 {
			return v, nil
		}
		avg, err := analysis.MeanOf(vals)
		if err != nil {
			return GroupBarsView{}, err
		}
		v.Average = &avg
		v.Ranked = len(gv)
		for i := range v.Bars {
			if v.Bars[i].ZeroTotal {
				continue
			}
			if d, ok := analysis.DiffFromMean(v.Bars[i].Total, avg); ok {
				v.Bars[i].DiffFromAverage = &d
			}
			v.Bars[i].Rank, _, _ = analysis.RankOf(gv, v.Bars[i].Key)
		}
	}
	return v, nil
}

// YearPoint is one school year on the trend line.
type YearPoint struct {
	Year   string             `json:"year"`
	Values map[string]float64 `json:"values"`
	Total  float64            `json:"total"`
	// Change is the percentage change of Total from the previous present year.
	Change *float64 `json:"change,omitempty"`
}

// YearTrendView follows spending across school years.
type YearTrendView struct {
	Selection filter.Selection     `json:"selection"`
	Fields    []string             `json:"fields"`
	Points    []YearPoint          `json:"points"`
	// Average is the mean across years for single-field views.
	Average *float64             `json:"average,omitempty"`
	Trend   *analysis.Regression `json:"trend,omitempty"`
}

// YearTrend averages discretionary spending per school year in year order.
// The trend line regresses the total on the year index.
func (e *Explorer) YearTrend(sel filter.Selection, field string) (YearTrendView, error) {
	fields, err := resolveFields(field)
	if err != nil {
		return YearTrendView{}, err
	}
	rs, err := e.selectRecords(sel)
	if err != nil {
		return YearTrendView{}, err
	}
	means := analysis.GroupMeans(rs, dataset.FieldYearInSchool, fields, true)
	v := YearTrendView{Selection: sel, Fields: fields}
	var xs, ys []float64
	for i, year := range dataset.Years {
		row, ok := means[year]
		if !ok {
			continue
		}
		p := YearPoint{Year: year, Values: make(map[string]float64, len(fields)), Total: row[analysis.TotalField]}
		for _, f := range fields {
			p.Values[f] = row[f]
		}
		if n := len(v.Points); n > 0 {
			if d, ok := analysis.DiffFromMean(p.Total, v.Points[n-1].Total); ok {
				p.Change = &d
			}
		}
		v.Points = append(v.Points, p)
		xs = append(xs, float64(i))
		ys = append(ys, p.Total)
	}
	if len(fields) == 1 && len(ys) > 0 {
		avg, err := analysis.MeanOf(ys)
		if err != nil {
			return YearTrendView{}, err
		}
		v.Average = &avg
	}
	if fit, err := analysis.Fit(xs, ys); err == nil {
		v.Trend = &fit
	} else if !errors.Is(err, analysis.ErrDegenerateInput) {
		return YearTrendView{}, err
	}
	return v, nil
}

// IncomePoint is one student on the income scatter.
type IncomePoint struct {
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
	Class    string  `json:"class"`
}

// IncomeView is the income versus discretionary spending scatter.
type IncomeView struct {
	Selection filter.Selection     `json:"selection"`
	Points    []IncomePoint        `json:"points"`
	Counts    map[string]int       `json:"counts"`
	Fit       *analysis.Regression `json:"fit,omitempty"`
	TrendLine *[2][2]float64       `json:"trend_line,omitempty"`
	// Note explains a missing fit.
	Note string `json:"note,omitempty"`
}

// IncomeScatter pairs each student's income with their discretionary
// spending, colours by income third and fits a trend line.
func (e *Explorer) IncomeScatter(sel filter.Selection) (IncomeView, error) {
	rs, err := e.selectRecords(sel)
	if err != nil {
		return IncomeView{}, err
	}
	incomes := rs.Values(dataset.FieldIncome)
	spend := rs.Values(dataset.FieldDiscretionarySpending)
	classes := analysis.ClassifyIncome(incomes)
	v := IncomeView{Selection: sel, Points: make([]IncomePoint, len(incomes)), Counts: map[string]int{}}
	for i := range incomes {
		v.Points[i] = IncomePoint{Income: incomes[i], Spending: spend[i], Class: classes[i]}
		v.Counts[classes[i]]++
	}
	fit, err := analysis.IncomeFit(rs)
	if err != nil {
		var die *analysis.DegenerateInputError
		if !errors.As(err, &die) {
			return IncomeView{}, err
		}
		v.Note = die.Error()
		return v, nil
	}
	v.Fit = &fit
	lo, hi := incomes[0], incomes[0]
	for _, x := range incomes {
		lo, hi = min(lo, x), max(hi, x)
	}
	line := fit.TrendLine(lo, hi)
	v.TrendLine = &line
	return v, nil
}

// RadarSeries is one named polygon.
type RadarSeries struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
	Points []radar.Point      `json:"points"`
}

// RadarView is the radar chart of the visitor against the selection's averages.
type RadarView struct {
	Selection filter.Selection `json:"selection"`
	Axes      []string         `json:"axes"`
	Sample    int              `json:"sample"`
	MaxValue  float64          `json:"max_value"`
	Grid      []float64        `json:"grid"`
	Series    []RadarSeries    `json:"series"`
	// Empty is set when the selection matched no records.
	Empty bool `json:"empty,omitempty"`
}

// Radar projects the visitor's three categories and, with showAverage, the
// selection's average over all nine categories. Axes are radar labels.
func (e *Explorer) Radar(sel filter.Selection, in userinput.Input, showAverage bool) (RadarView, error) {
	rs, err := e.selectRecords(sel)
	if err != nil {
		return RadarView{}, err
	}
	axes := make([]string, len(dataset.Categories))
	for i, c := range dataset.Categories {
		axes[i] = c.RadarLabel
	}
	v := RadarView{Selection: sel, Axes: axes, Sample: rs.Len(), Grid: radar.Grid(e.levels, e.radius)}
	if rs.Empty() {
		v.Empty = true
		return v, nil
	}
	student := in.Series()
	series := []map[string]float64{student}
	var avg map[string]float64
	if showAverage {
		means, _ := analysis.FieldMeans(rs, dataset.CategoryIDs())
		avg = make(map[string]float64, len(means))
		for _, c := range dataset.Categories {
			avg[c.RadarLabel] = means[c.ID]
		}
		series = append(series, avg)
	}
	v.MaxValue = radar.MaxAcross(series...)
	v.Series = append(v.Series, RadarSeries{Name: "Student", Values: student, Points: radar.Project(axes, student, v.MaxValue, e.radius)})
	if showAverage {
		v.Series = append(v.Series, RadarSeries{Name: "Average", Values: avg, Points: radar.Project(axes, avg, v.MaxValue, e.radius)})
	}
	return v, nil
}

// RankView places one group among its peers.
type RankView struct {
	Selection filter.Selection      `json:"selection"`
	Dimension string                `json:"dimension"`
	Field     string                `json:"field"`
	Target    string                `json:"target"`
	Rank      int                   `json:"rank"`
	Total     int                   `json:"total"`
	Value     float64               `json:"value"`
	Values    []analysis.GroupValue `json:"values"`
}

// Rank orders the groups of dim by their mean of a discretionary field (or
// the discretionary total when field is "total") and reports target's
// position.
func (e *Explorer) Rank(sel filter.Selection, dim dataset.Dimension, field, target string) (RankView, error) {
	fields := dataset.DiscretionaryFields
	key := analysis.TotalField
	if field != "" && !strings.EqualFold(field, analysis.TotalField) {
		f, err := resolveFields(field)
		if err != nil {
			return RankView{}, err
		}
		if len(f) != 1 {
			return RankView{}, fmt.Errorf("rank needs one category or %q, got %q", analysis.TotalField, field)
		}
		key = f[0]
	}
	rs, err := e.selectRecords(sel)
	if err != nil {
		return RankView{}, err
	}
	means := analysis.GroupMeans(rs, dim.Field, fields, true)
	vals := analysis.ValuesOf(means, dim.Keys, key)
	rank, total, err := analysis.RankOf(vals, target)
	if err != nil {
		return RankView{}, err
	}
	v := RankView{Selection: sel, Dimension: dim.Name, Field: key, Target: target, Rank: rank, Total: total, Values: vals}
	for _, gv := range vals {
		if gv.Key == target {
			v.Value = gv.Value
			break
		}
	}
	return v, nil
}

// CompareView sets the visitor's input against the selection's averages.
type CompareView struct {
	Selection filter.Selection     `json:"selection"`
	Input     userinput.Input      `json:"input"`
	Averages  map[string]float64   `json:"averages"`
	Biggest   userinput.Difference `json:"biggest"`
}

// Compare finds the discretionary category where the visitor differs most
// from the average student.
func (e *Explorer) Compare(sel filter.Selection, in userinput.Input) (CompareView, error) {
	rs, err := e.selectRecords(sel)
	if err != nil {
		return CompareView{}, err
	}
	avg, ok := analysis.FieldMeans(rs, dataset.DiscretionaryFields)
	if !ok {
		return CompareView{}, &analysis.EmptySampleError{Stat: "category averages"}
	}
	return CompareView{
		Selection: sel,
		Input:     in,
		Averages:  avg,
		Biggest:   userinput.BiggestDifference(in, avg),
	}, nil
}
