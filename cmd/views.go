package cmd

import (
	"fmt"

	"github.com/KaramelBytes/spendlens/internal/dataset"
	"github.com/KaramelBytes/spendlens/internal/userinput"
	"github.com/spf13/cobra"
)

var (
	groupsCategory string
	yearsCategory  string
	rankCategory   string
	groupsNormal   bool
	noAverage      bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Distribution of discretionary spending and where your total falls in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		in, ok, err := resolveInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		var inp *userinput.Input
		if ok {
			inp = &in
		}
		v, err := ex.DiscretionaryBox(currentSelection(), inp)
		if err != nil {
			return err
		}
		return render(cmd, v)
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups <gender|major|year>",
	Short: "Average discretionary spending per gender, major or year in school",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, err := dataset.LookupDimension(args[0])
		if err != nil {
			return err
		}
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		v, err := ex.GroupBars(currentSelection(), dim, groupsCategory, groupsNormal)
		if err != nil {
			return err
		}
		markVisited(cmd.Context(), dim.Name)
		return render(cmd, v)
	},
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Discretionary spending trend across years in school",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		v, err := ex.YearTrend(currentSelection(), yearsCategory)
		if err != nil {
			return err
		}
		markVisited(cmd.Context(), dataset.YearDimension.Name)
		return render(cmd, v)
	},
}

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Income against discretionary spending with a fitted trend line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		v, err := ex.IncomeScatter(currentSelection())
		if err != nil {
			return err
		}
		markVisited(cmd.Context(), "income")
		return render(cmd, v)
	},
}

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Radar projection of your spending against the selected students' averages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		in, _, err := resolveInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		v, err := ex.Radar(currentSelection(), in, !noAverage)
		if err != nil {
			return err
		}
		return render(cmd, v)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <gender|major|year> <group>",
	Short: "Rank a group among its peers by average spending",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dim, err := dataset.LookupDimension(args[0])
		if err != nil {
			return err
		}
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		v, err := ex.Rank(currentSelection(), dim, rankCategory, args[1])
		if err != nil {
			return err
		}
		return render(cmd, v)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Find the category where your spending differs most from the average",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, ok, err := resolveInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no spending data available: pass input flags or run 'spendlens input set' first")
		}
		ex, err := loadExplorer()
		if err != nil {
			return err
		}
		v, err := ex.Compare(currentSelection(), in)
		if err != nil {
			return err
		}
		return render(cmd, v)
	},
}

func init() {
	for _, c := range []*cobra.Command{summaryCmd, groupsCmd, yearsCmd, incomeCmd, radarCmd, rankCmd, compareCmd} {
		addSelectionFlags(c)
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{summaryCmd, radarCmd, compareCmd} {
		addInputFlags(c)
	}
	groupsCmd.Flags().StringVarP(&groupsCategory, "category", "c", "all", "discretionary category (entertainment, personal_care, miscellaneous) or all")
	groupsCmd.Flags().BoolVar(&groupsNormal, "normalize", false, "show each category as a percentage of the group's total")
	yearsCmd.Flags().StringVarP(&yearsCategory, "category", "c", "all", "discretionary category (entertainment, personal_care, miscellaneous) or all")
	rankCmd.Flags().StringVarP(&rankCategory, "category", "c", "total", "discretionary category to rank by, or total")
	radarCmd.Flags().BoolVar(&noAverage, "no-average", false, "hide the average polygon")
}
