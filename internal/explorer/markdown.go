package explorer

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/analysis"
	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/KaramelBytes/spendlens/internal/filter"
)

// Markdowner is implemented by every view.
type Markdowner interface {
	Markdown() string
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func writeSelection(b *strings.Builder, sel filter.Selection) {
	if !sel.Active() {
		b.WriteString("Selection: all students\n")
		return
	}
	var parts []string
	add := func(name, v string) {
		if v != "" && !strings.EqualFold(v, filter.All) {
			parts = append(parts, fmt.Sprintf("%s=%s", name, v))
		}
	}
	add("gender", sel.Gender)
	add("income", sel.Income)
	add("year", sel.Year)
	add("major", sel.Major)
	b.WriteString("Selection: " + strings.Join(parts, ", ") + "\n")
}

func (v BoxView) Markdown() string {
	var b strings.Builder
	b.WriteString("[DISCRETIONARY SPENDING]\n")
	writeSelection(&b, v.Selection)
	b.WriteString(fmt.Sprintf("Students: %d\n\n", v.Sample))
	s := v.Summary
	b.WriteString("[DISTRIBUTION]\n")
	b.WriteString(fmt.Sprintf("- min %s, q1 %s, median %s, q3 %s, max %s\n", money(s.Min), money(s.Q1), money(s.Median), money(s.Q3), money(s.Max)))
	b.WriteString(fmt.Sprintf("- mean %s, iqr %s\n", money(s.Mean), money(s.IQR)))
	b.WriteString(fmt.Sprintf("- whiskers %s .. %s\n", money(s.LowerWhisker), money(s.UpperWhisker)))
	if v.Input != nil {
		b.WriteString("\n[YOUR SPENDING]\n")
		b.WriteString(fmt.Sprintf("Your total monthly discretionary spending: %s\n", money(v.UserTotal)))
		b.WriteString(fmt.Sprintf("You spend more than approximately %.0f%% of students monthly.\n", v.Percentile))
		b.WriteString(fmt.Sprintf("Your monthly spending is %s.\n", v.Standing))
		b.WriteString(fmt.Sprintf("The average student spends %s monthly on these categories combined.\n", money(s.Mean)))
	}
	return b.String()
}

func (v GroupBarsView) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[SPENDING BY %s]\n", strings.ToUpper(v.Dimension)))
	writeSelection(&b, v.Selection)
	if v.Normalized {
		b.WriteString("Values: percentage of each group's discretionary total\n")
	} else {
		b.WriteString("Values: average monthly spending\n")
	}
	b.WriteString("\n")
	if len(v.Bars) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	format := money
	if v.Normalized {
		format = func(x float64) string { return fmt.Sprintf("%.1f%%", x) }
	}
	for _, bar := range v.Bars {
		if bar.ZeroTotal {
			b.WriteString(fmt.Sprintf("- %s: no discretionary spending\n", bar.Key))
			continue
		}
		if len(v.Fields) == 1 {
			line := fmt.Sprintf("- %s: %s", bar.Key, format(bar.Total))
			if bar.DiffFromAverage != nil {
				d := *bar.DiffFromAverage
				if d > 0 {
					line += fmt.Sprintf(" (%.1f%% above avg", d)
				} else {
					line += fmt.Sprintf(" (%.1f%% below avg", -d)
				}
				line += fmt.Sprintf(", rank %d/%d)", bar.Rank, v.Ranked)
			}
			b.WriteString(line + "\n")
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (total %s)\n", bar.Key, format(bar.Total)))
		for _, f := range v.Fields {
			b.WriteString(fmt.Sprintf("  • %s: %s\n", dataset.Label(f), format(bar.Values[f])))
		}
	}
	if v.Average != nil {
		b.WriteString(fmt.Sprintf("\nAvg: %s\n", format(*v.Average)))
	}
	return b.String()
}

func (v YearTrendView) Markdown() string {
	var b strings.Builder
	b.WriteString("[SPENDING BY YEAR OF STUDY]\n")
	writeSelection(&b, v.Selection)
	b.WriteString("\n")
	if len(v.Points) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	for _, p := range v.Points {
		line := fmt.Sprintf("- %s: %s", p.Year, money(p.Total))
		if p.Change != nil {
			line += fmt.Sprintf(" (%+.1f%% vs previous)", *p.Change)
		}
		b.WriteString(line + "\n")
		if len(v.Fields) > 1 {
			for _, f := range v.Fields {
				b.WriteString(fmt.Sprintf("  • %s: %s\n", dataset.Label(f), money(p.Values[f])))
			}
		}
	}
	if v.Average != nil {
		b.WriteString(fmt.Sprintf("\nAvg: %s\n", money(*v.Average)))
	}
	if v.Trend != nil {
		b.WriteString("\n[TREND]\n")
		b.WriteString(fmt.Sprintf("- %s per year\n", money(v.Trend.Slope)))
	}
	return b.String()
}

func (v IncomeView) Markdown() string {
	var b strings.Builder
	b.WriteString("[INCOME VS DISCRETIONARY SPENDING]\n")
	writeSelection(&b, v.Selection)
	b.WriteString(fmt.Sprintf("Students: %d\n\n", len(v.Points)))
	b.WriteString("[INCOME CLASSES]\n")
	for _, c := range analysis.IncomeClasses {
		b.WriteString(fmt.Sprintf("- %s: %d\n", c, v.Counts[c]))
	}
	b.WriteString("\n[REGRESSION]\n")
	if v.Fit == nil {
		b.WriteString(fmt.Sprintf("(no trend line: %s)\n", v.Note))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("- slope %.4f, intercept %.2f\n", v.Fit.Slope, v.Fit.Intercept))
	if v.Fit.HasCorrelation() {
		b.WriteString(fmt.Sprintf("- r=%.3f\n", v.Fit.Correlation))
	} else {
		b.WriteString("- r undefined (spending has no variance)\n")
	}
	if v.TrendLine != nil {
		l := *v.TrendLine
		b.WriteString(fmt.Sprintf("- line (%.2f, %.2f) to (%.2f, %.2f)\n", l[0][0], l[0][1], l[1][0], l[1][1]))
	}
	return b.String()
}

func (v RadarView) Markdown() string {
	var b strings.Builder
	b.WriteString("[RADAR]\n")
	writeSelection(&b, v.Selection)
	b.WriteString(fmt.Sprintf("Students: %d\n", v.Sample))
	if v.Empty {
		b.WriteString("\nNo data available for the selected filters.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Scale max: %s\n", money(v.MaxValue)))
	for _, s := range v.Series {
		b.WriteString(fmt.Sprintf("\n[%s]\n", strings.ToUpper(s.Name)))
		for _, p := range s.Points {
			b.WriteString(fmt.Sprintf("- %s: %s (r=%.1f, x=%.1f, y=%.1f)\n", p.Category, money(s.Values[p.Category]), p.Radius, p.X, p.Y))
		}
	}
	return b.String()
}

func (v RankView) Markdown() string {
	var b strings.Builder
	b.WriteString("[RANK]\n")
	writeSelection(&b, v.Selection)
	b.WriteString(fmt.Sprintf("%s ranks %d of %d by %s (%s)\n\n", v.Target, v.Rank, v.Total, dataset.Label(v.Field), money(v.Value)))
	for _, gv := range v.Values {
		b.WriteString(fmt.Sprintf("- %s: %s\n", gv.Key, money(gv.Value)))
	}
	return b.String()
}

func (v CompareView) Markdown() string {
	var b strings.Builder
	b.WriteString("[COMPARISON]\n")
	writeSelection(&b, v.Selection)
	b.WriteString("\n")
	for _, f := range dataset.DiscretionaryFields {
		b.WriteString(fmt.Sprintf("- %s: you %s, average %s\n", dataset.Label(f), money(v.Input.Values()[f]), money(v.Averages[f])))
	}
	b.WriteString("\n[SUMMARY]\n")
	d := v.Biggest
	if !d.Comparable {
		b.WriteString("There is no average spending data available for comparison.\n")
		return b.String()
	}
	dir := "less"
	if d.More() {
		dir = "more"
	}
	label := dataset.Label(d.Category)
	diff := d.Difference
	if diff < 0 {
		diff = -diff
	}
	b.WriteString(fmt.Sprintf("Your spending in %s is $%.0f %s than the average. The average student spends $%.0f on %s. ", label, diff, dir, d.Average, label))
	if d.Multiplier > 1 {
		b.WriteString(fmt.Sprintf("That is %.1fx more than the average spend in %s.\n", d.Multiplier, label))
	} else {
		b.WriteString(fmt.Sprintf("That is %.1fx of the average spend in %s.\n", d.Multiplier, label))
	}
	return b.String()
}
