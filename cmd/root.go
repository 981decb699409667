package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/spendlens/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	dataPath   string
	sheetName  string
	outFormat  string
	outputPath string

	// Locale separators for numeric cells
	decimalSep   string
	thousandsSep string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = newLogger()
)

var rootCmd = &cobra.Command{
	Use:   "spendlens",
	Short: "spendlens: student spending statistics behind the comparison charts",
	Long: `spendlens loads a table of student spending records and derives the data
behind each comparison view: discretionary spending distribution, per-group
averages, year-of-study trends, income regression, radar projections and ranks.
Results are printed as Markdown or JSON; drawing is left to the caller.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.spendlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "student spending CSV/TSV/XLSX (overrides config data_path)")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "XLSX sheet name (overrides config sheet_name)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", "markdown", "output format: markdown|json")
	rootCmd.PersistentFlags().StringVar(&decimalSep, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	rootCmd.PersistentFlags().StringVar(&thousandsSep, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write output to a file instead of stdout")
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
	}

	level := logrus.InfoLevel
	if cfg != nil && cfg.LogLevel != "" {
		if lv, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			level = lv
		} else {
			logger.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		}
	}
	if debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
}

// config returns the loaded configuration, loading it on demand.
func config() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
