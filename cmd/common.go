package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/KaramelBytes/spendlens/internal/explorer"
	"github.com/KaramelBytes/spendlens/internal/filter"
	"github.com/KaramelBytes/spendlens/internal/store"
	"github.com/KaramelBytes/spendlens/internal/userinput"
	"github.com/KaramelBytes/spendlens/internal/utils"
	"github.com/spf13/cobra"
)

// Selection flags shared by the view commands.
var (
	selGender string
	selIncome string
	selYear   string
	selMajor  string
)

func addSelectionFlags(c *cobra.Command) {
	c.Flags().StringVar(&selGender, "gender", filter.All, "gender filter (Male, Female, Non-binary or all)")
	c.Flags().StringVar(&selIncome, "income", filter.All, "disposable income bracket label (e.g. 0-75, 75-150, 150+ or all)")
	c.Flags().StringVar(&selYear, "year", filter.All, "year in school filter (Freshman..Senior or all)")
	c.Flags().StringVar(&selMajor, "major", filter.All, "major filter or all")
}

func currentSelection() filter.Selection {
	return filter.Selection{Gender: selGender, Income: selIncome, Year: selYear, Major: selMajor}
}

// Visitor input flags.
var (
	inQuery         string
	inEntertainment float64
	inPersonalCare  float64
	inMisc          float64
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inQuery, "query", "", "input as a query string, e.g. entertainment=50&personal-care=20&miscellaneous=10")
	c.Flags().Float64Var(&inEntertainment, "entertainment", 0, "your monthly entertainment spending")
	c.Flags().Float64Var(&inPersonalCare, "personal-care", 0, "your monthly personal care spending")
	c.Flags().Float64Var(&inMisc, "miscellaneous", 0, "your monthly miscellaneous spending")
}

func inputFlagsChanged(c *cobra.Command) bool {
	f := c.Flags()
	return f.Changed("entertainment") || f.Changed("personal-care") || f.Changed("miscellaneous")
}

// flagInput builds an Input from the command line, reporting false when no
// input flag was given.
func flagInput(c *cobra.Command) (userinput.Input, bool) {
	if inputFlagsChanged(c) {
		return userinput.Input{
			Entertainment: inEntertainment,
			PersonalCare:  inPersonalCare,
			Miscellaneous: inMisc,
		}, true
	}
	if strings.TrimSpace(inQuery) != "" {
		return userinput.FromQuery(inQuery), true
	}
	return userinput.Input{}, false
}

// resolveInput prefers command line input, then the saved blob. It reports
// false when neither exists.
func resolveInput(ctx context.Context, c *cobra.Command) (userinput.Input, bool, error) {
	if in, ok := flagInput(c); ok {
		return in, true, nil
	}
	s, err := openStore()
	if err != nil {
		return userinput.Input{}, false, err
	}
	defer s.Close()
	b, err := s.Get(ctx, store.KeyUserSpending)
	if errors.Is(err, store.ErrNotFound) {
		return userinput.Input{}, false, nil
	}
	if err != nil {
		return userinput.Input{}, false, err
	}
	logger.Debug("using saved spending input")
	return userinput.FromBlob(b), true, nil
}

func openStore() (store.Store, error) {
	c, err := config()
	if err != nil {
		return nil, err
	}
	loc, err := c.StoreLocation()
	if err != nil {
		return nil, err
	}
	path, err := utils.ExpandHome(loc)
	if err != nil {
		return nil, err
	}
	return store.Open(c.StoreDriver, path, logger)
}

// markVisited records that a factor view was opened. Failures only log.
func markVisited(ctx context.Context, name string) {
	s, err := openStore()
	if err != nil {
		logger.WithError(err).Debug("visited marker skipped")
		return
	}
	defer s.Close()
	if err := s.Put(ctx, store.VisitedPrefix+name, []byte("true")); err != nil {
		logger.WithError(err).Debug("visited marker skipped")
	}
}

func loadOptions() (string, dataset.LoadOptions, error) {
	c, err := config()
	if err != nil {
		return "", dataset.LoadOptions{}, err
	}
	path := c.DataPath
	if dataPath != "" {
		path = dataPath
	}
	sheet := c.SheetName
	if sheetName != "" {
		sheet = sheetName
	}
	if path == "" {
		return "", dataset.LoadOptions{}, fmt.Errorf("no data file: pass --data or set data_path")
	}
	path, err = utils.ExpandHome(path)
	if err != nil {
		return "", dataset.LoadOptions{}, err
	}
	nf, err := numberFormat()
	if err != nil {
		return "", dataset.LoadOptions{}, err
	}
	return path, dataset.LoadOptions{Sheet: sheet, Format: nf}, nil
}

// numberFormat maps --decimal and --thousands to a NumberFormat.
func numberFormat() (dataset.NumberFormat, error) {
	var nf dataset.NumberFormat
	switch strings.ToLower(strings.TrimSpace(decimalSep)) {
	case ",", "comma":
		nf.DecimalSeparator = ','
	case ".", "dot":
		nf.DecimalSeparator = '.'
	case "":
	default:
		return nf, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimalSep)
	}
	switch strings.ToLower(strings.TrimSpace(thousandsSep)) {
	case ",":
		nf.ThousandsSeparator = ','
	case ".":
		nf.ThousandsSeparator = '.'
	case "space", " ":
		nf.ThousandsSeparator = ' '
	case "":
	default:
		return nf, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousandsSep)
	}
	if nf.DecimalSeparator != 0 && nf.DecimalSeparator == nf.ThousandsSeparator {
		return nf, fmt.Errorf("--decimal and --thousands must differ")
	}
	if nf.DecimalSeparator == ',' && nf.ThousandsSeparator == 0 {
		nf.ThousandsSeparator = '.'
	}
	return nf, nil
}

func newExplorer(rs dataset.RecordSet) (*explorer.Explorer, error) {
	c, err := config()
	if err != nil {
		return nil, err
	}
	brackets, err := c.Brackets()
	if err != nil {
		return nil, err
	}
	return explorer.New(rs, explorer.Options{
		Brackets:    brackets,
		OuterRadius: c.RadarOuterRadius,
		Levels:      c.RadarLevels,
		Logger:      logger,
	}), nil
}

// loadExplorer reads the configured data file.
func loadExplorer() (*explorer.Explorer, error) {
	path, opt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	rs, err := dataset.Load(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	logger.WithField("path", path).WithField("records", rs.Len()).Debug("data loaded")
	return newExplorer(rs)
}

// render writes a view as Markdown or JSON to --output or the command's stdout.
func render(c *cobra.Command, v explorer.Markdowner) error {
	var out []byte
	switch strings.ToLower(strings.TrimSpace(outFormat)) {
	case "", "markdown", "md":
		out = []byte(v.Markdown())
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		out = append(b, '\n')
	default:
		return fmt.Errorf("unsupported --format: %s (use markdown|json)", outFormat)
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(c.OutOrStdout(), "✓ Wrote %s\n", outputPath)
		return nil
	}
	_, err := c.OutOrStdout().Write(out)
	return err
}
