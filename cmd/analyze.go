package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tabload/internal/analysis"
	"github.com/KaramelBytes/tabload/internal/chart"
	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/KaramelBytes/tabload/internal/logging"
	"github.com/spf13/cobra"
)

var (
	anaProject    string
	anaFiles      string
	anaColumns    string
	anaFormat     string
	anaOutputPath string
	anaPlotsDir   string
	anaBins       int
	anaDigits     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Combine columns from uploaded files and summarize them",
	Long: `Loads each file named by --files, keeps the columns named by --columns,
stacks the rows in file order and reports numeric statistics, pairwise
correlations, histograms and category frequencies. Every file must contain
every selected column.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		format, err := resolveFormat(anaFormat)
		if err != nil {
			return err
		}
		p, err := loadProjectByName(anaProject)
		if err != nil {
			return err
		}
		set := effectiveSettings(c, p)
		opt := analysis.Options{Bins: set.HistogramBins, CorrDigits: set.CorrDigits}
		if cmd.Flags().Changed("bins") {
			opt.Bins = anaBins
		}
		if cmd.Flags().Changed("corr-digits") {
			opt.CorrDigits = anaDigits
		}

		start := time.Now()
		files := splitList(anaFiles)
		tables := make([]*dataset.Table, 0, len(files))
		for _, f := range files {
			tbl, err := p.LoadTable(f)
			if err != nil {
				return err
			}
			tables = append(tables, tbl)
		}
		combined, err := analysis.Combine(tables, splitList(anaColumns))
		if err != nil {
			return err
		}
		res := analysis.Analyze(combined, opt)
		rows, cols := combined.Shape()
		logger.Info().
			Str(logging.ProjectKey, p.Name).
			Str(logging.DatasetKey, combined.Name).
			Int(logging.RowsKey, rows).
			Int(logging.ColumnsKey, cols).
			Dur(logging.DurationKey, time.Since(start)).
			Msg("analysis complete")
		for _, w := range res.Warnings {
			logger.Warn().Str(logging.DatasetKey, combined.Name).Msg(w)
		}

		if anaPlotsDir != "" {
			paths, err := chart.WriteAll(anaPlotsDir, res, chart.Size{Width: c.PlotWidthIn, Height: c.PlotHeightIn})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d charts to %s\n", len(paths), anaPlotsDir)
		}

		data, err := render(format, res)
		if err != nil {
			return err
		}
		return emit(cmd, anaOutputPath, data)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaProject, "project", "p", "", "project name")
	analyzeCmd.Flags().StringVar(&anaFiles, "files", "", "comma-separated uploaded file names, in stacking order")
	analyzeCmd.Flags().StringVar(&anaColumns, "columns", "", "comma-separated column names to analyze")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVar(&anaPlotsDir, "plots", "", "directory for histogram and category PNG charts")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 0, "histogram bins (default from config)")
	analyzeCmd.Flags().IntVar(&anaDigits, "corr-digits", 0, "decimal digits kept in correlations (default from config)")
}
