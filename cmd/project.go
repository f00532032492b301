package cmd

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings and datasets",
}

var projectSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Override preview_rows, histogram_bins or corr_digits for one project",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProjectByName(pmProject)
		if err != nil {
			return err
		}
		val := 0
		if !pmClear {
			if len(args) < 2 {
				return errors.New("value is required unless --clear is set")
			}
			val, err = strconv.Atoi(args[1])
			if err != nil || val < 1 {
				return errors.Newf("invalid value for %s: %s (want a positive integer)", args[0], args[1])
			}
		}
		switch args[0] {
		case "preview_rows":
			p.Config.PreviewRows = val
		case "histogram_bins":
			p.Config.HistogramBins = val
		case "corr_digits":
			if val > 15 {
				return errors.Newf("corr_digits must be at most 15, got %d", val)
			}
			p.Config.CorrDigits = val
		default:
			return errors.Newf("unknown project key: %s", args[0])
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s for %s\n", args[0], p.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s for %s: %d\n", args[0], p.Name, val)
		}
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "rm <filename>",
	Short: "Remove an uploaded dataset and its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProjectByName(pmProject)
		if err != nil {
			return err
		}
		if err := p.RemoveDataset(args[0]); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from %s\n", args[0], p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectSetCmd)
	projectCmd.AddCommand(projectRemoveCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectSetCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the override and inherit the global value")
}
