package cmd

import (
	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	pvProject string
	pvRows    int
	pvFormat  string
	pvOutput  string
)

var previewCmd = &cobra.Command{
	Use:   "preview <filename>",
	Short: "Show the summary and first rows of an uploaded dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		format, err := resolveFormat(pvFormat)
		if err != nil {
			return err
		}
		p, err := loadProjectByName(pvProject)
		if err != nil {
			return err
		}
		tbl, err := p.LoadTable(args[0])
		if err != nil {
			return err
		}
		rows := effectiveSettings(c, p).PreviewRows
		if cmd.Flags().Changed("rows") {
			rows = pvRows
		}
		data, err := render(format, dataset.Describe(tbl, rows))
		if err != nil {
			return err
		}
		return emit(cmd, pvOutput, data)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&pvProject, "project", "p", "", "project name")
	previewCmd.Flags().IntVarP(&pvRows, "rows", "n", 0, "number of preview rows (default from config)")
	previewCmd.Flags().StringVarP(&pvFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	previewCmd.Flags().StringVarP(&pvOutput, "output", "o", "", "write to a file instead of stdout")
}
