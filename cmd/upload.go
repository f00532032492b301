package cmd

import (
	"time"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/KaramelBytes/tabload/internal/logging"
	"github.com/spf13/cobra"
)

var (
	upProject   string
	upFormat    string
	upOutput    string
	upDelimiter string
	upDecimal   string
	upThousands string
	upSheet     string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload CSV, TSV or XLSX files into a project",
	Long: `Copies each file into the project's uploads directory under a sanitized
name, records it in project.json and prints its summary: columns, inferred
kinds, shape, missing values per column and a preview of the first rows.
Uploading a file with the same name replaces the earlier copy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		format, err := resolveFormat(upFormat)
		if err != nil {
			return err
		}
		opt, err := parseOptions(upDelimiter, upDecimal, upThousands)
		if err != nil {
			return err
		}
		opt.Sheet = upSheet
		p, err := loadProjectByName(upProject)
		if err != nil {
			return err
		}
		set := effectiveSettings(c, p)

		summaries := make([]dataset.Summary, 0, len(args))
		for _, file := range args {
			start := time.Now()
			d, tbl, err := p.AddDataset(file, c.MaxUploadBytes(), opt)
			if err != nil {
				return err
			}
			// persist after each file so earlier uploads survive a later failure
			if err := p.Save(); err != nil {
				return err
			}
			logger.Info().
				Str(logging.ProjectKey, p.Name).
				Str(logging.DatasetKey, d.Filename).
				Int(logging.RowsKey, d.Rows).
				Int(logging.ColumnsKey, len(d.Columns)).
				Dur(logging.DurationKey, time.Since(start)).
				Msg("dataset uploaded")
			summaries = append(summaries, dataset.Describe(tbl, set.PreviewRows))
		}

		var v any = summaries
		if len(summaries) == 1 {
			v = summaries[0]
		}
		data, err := render(format, v)
		if err != nil {
			return err
		}
		return emit(cmd, upOutput, data)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&upProject, "project", "p", "", "project name")
	uploadCmd.Flags().StringVarP(&upFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	uploadCmd.Flags().StringVarP(&upOutput, "output", "o", "", "write the summary to a file instead of stdout")
	uploadCmd.Flags().StringVar(&upDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' | '|' (default by extension)")
	uploadCmd.Flags().StringVar(&upDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	uploadCmd.Flags().StringVar(&upThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	uploadCmd.Flags().StringVar(&upSheet, "sheet", "", "XLSX: worksheet name (default first sheet)")
}
