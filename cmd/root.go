package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/tabload/internal/analysis"
	cfgpkg "github.com/KaramelBytes/tabload/internal/config"
	"github.com/KaramelBytes/tabload/internal/logging"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Structured log for progress events; results go to stdout.
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "tabload",
	Short: "tabload: upload tabular files and analyze them together",
	Long: `tabload keeps uploaded CSV, TSV and XLSX files in projects and computes
descriptive statistics, correlations, histograms and category frequencies over
columns combined from several files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabload/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report the error themselves
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		logger = newLogger("info")
		return
	}
	cfg = c
	logger = newLogger(c.LogLevel)
}

func newLogger(level string) zerolog.Logger {
	l, err := logging.New(rootCmd.ErrOrStderr(), level, debug)
	if err != nil {
		l, _ = logging.New(rootCmd.ErrOrStderr(), "info", debug)
	}
	return l
}

// requireConfig returns the loaded configuration or the load error.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return c, nil
}

// printError writes "✗ Error [kind]: message"; the kind is omitted for
// unstructured failures.
func printError(w io.Writer, err error) {
	if kind := analysis.ErrorKind(err); kind != "" {
		fmt.Fprintf(w, "✗ Error [%s]: %v\n", kind, err)
	} else {
		fmt.Fprintln(w, "✗ Error:", err)
	}
	if debug {
		fmt.Fprintf(w, "%+v\n", err)
	}
	var obj zerolog.LogObjectMarshaler
	if errors.As(err, &obj) {
		logger.Debug().EmbedObject(obj).Msg("command failed")
	} else if kind := analysis.ErrorKind(err); kind != "" {
		logger.Debug().Str(logging.KindKey, kind).Msg("command failed")
	}
}
