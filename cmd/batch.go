package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/KaramelBytes/spendlens/internal/explorer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchQuiet   bool
	batchWorkers int
)

// batchResult is one file's views, kept in input order for rendering.
type batchResult struct {
	File    string                 `json:"file"`
	Records int                    `json:"records"`
	Box     explorer.BoxView       `json:"discretionary"`
	Gender  explorer.GroupBarsView `json:"gender"`
	Years   explorer.YearTrendView `json:"years"`
}

type batchReport struct {
	Files []batchResult `json:"files"`
}

func (r batchReport) Markdown() string {
	var b strings.Builder
	for i, f := range r.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("[FILE] %s (%d records)\n\n", f.File, f.Records))
		b.WriteString(f.Box.Markdown())
		b.WriteString("\n")
		b.WriteString(f.Gender.Markdown())
		b.WriteString("\n")
		b.WriteString(f.Years.Markdown())
	}
	return b.String()
}

// expandInputs resolves globs, drops duplicates and sorts.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Summarize several spending files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		_, opt, err := loadOptions()
		if err != nil {
			return err
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		results := make([]batchResult, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		total := len(files)
		for i, path := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !batchQuiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
				}
				res, err := summarizeFile(ctx, path, opt)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return render(cmd, batchReport{Files: results})
	},
}

func summarizeFile(ctx context.Context, path string, opt dataset.LoadOptions) (batchResult, error) {
	rs, err := dataset.Load(path, opt)
	if err != nil {
		return batchResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return batchResult{}, err
	}
	ex, err := newExplorer(rs)
	if err != nil {
		return batchResult{}, err
	}
	sel := currentSelection()
	res := batchResult{File: filepath.Base(path), Records: rs.Len()}
	if res.Box, err = ex.DiscretionaryBox(sel, nil); err != nil {
		return batchResult{}, err
	}
	if res.Gender, err = ex.GroupBars(sel, dataset.GenderDimension, "", false); err != nil {
		return batchResult{}, err
	}
	if res.Years, err = ex.YearTrend(sel, ""); err != nil {
		return batchResult{}, err
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addSelectionFlags(batchCmd)
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "suppress progress output")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent loads (default GOMAXPROCS)")
}
