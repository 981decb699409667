package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/store"
	"github.com/KaramelBytes/spendlens/internal/userinput"
	"github.com/spf13/cobra"
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Save, show or clear your own discretionary spending",
}

var inputSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save your monthly entertainment, personal care and miscellaneous spending",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, ok := flagInput(cmd)
		if !ok {
			return fmt.Errorf("nothing to save: pass --entertainment, --personal-care, --miscellaneous or --query")
		}
		b, err := in.Blob()
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Put(cmd.Context(), store.KeyUserSpending, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved spending input (total $%.2f)\n", in.Total())
		fmt.Fprintf(cmd.OutOrStdout(), "  query: %s\n", in.Query())
		return nil
	},
}

var inputShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved spending input and visited views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		out := cmd.OutOrStdout()
		b, err := s.Get(cmd.Context(), store.KeyUserSpending)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Fprintln(out, "No spending data saved")
		case err != nil:
			return err
		default:
			in := userinput.FromBlob(b)
			fmt.Fprintf(out, "entertainment: %.2f\n", in.Entertainment)
			fmt.Fprintf(out, "personal_care: %.2f\n", in.PersonalCare)
			fmt.Fprintf(out, "miscellaneous: %.2f\n", in.Miscellaneous)
			fmt.Fprintf(out, "total: %.2f\n", in.Total())
		}
		keys, err := s.Keys(cmd.Context(), store.VisitedPrefix)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = strings.TrimPrefix(k, store.VisitedPrefix)
			}
			fmt.Fprintf(out, "visited: %s\n", strings.Join(names, ", "))
		}
		return nil
	},
}

var inputClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved spending input and visited markers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Delete(cmd.Context(), store.KeyUserSpending); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		n, err := store.ClearPrefix(cmd.Context(), s, store.VisitedPrefix)
		if err != nil {
			return err
		}
		logger.WithField("visited", n).Debug("cleared visited markers")
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared saved spending input")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inputCmd)
	inputCmd.AddCommand(inputSetCmd)
	inputCmd.AddCommand(inputShowCmd)
	inputCmd.AddCommand(inputClearCmd)
	addInputFlags(inputSetCmd)
}
