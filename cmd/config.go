package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/spendlens/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set spendlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "store_driver: %s\n", cfg.StoreDriver)
		if loc, err := cfg.StoreLocation(); err == nil {
			fmt.Fprintf(out, "store_path: %s\n", loc)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "radar_outer_radius: %.1f\n", cfg.RadarOuterRadius)
		fmt.Fprintf(out, "radar_levels: %d\n", cfg.RadarLevels)
		fmt.Fprintln(out, "income_brackets:")
		for _, b := range cfg.IncomeBrackets {
			lo, hi := "-inf", "+inf"
			if b.Min != nil {
				lo = fmt.Sprintf("%g", *b.Min)
			}
			if b.Max != nil {
				hi = fmt.Sprintf("%g", *b.Max)
			}
			fmt.Fprintf(out, "  - %s: [%s, %s)\n", b.Label, lo, hi)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
