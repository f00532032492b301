package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabload/internal/config"
	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/KaramelBytes/tabload/internal/project"
	"github.com/KaramelBytes/tabload/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type markdowner interface {
	Markdown() string
}

// resolveFormat returns the --format value or the configured default.
func resolveFormat(flag string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		c, err := requireConfig()
		if err != nil {
			return "", err
		}
		f = c.OutputFormat
	}
	for _, ok := range cfgpkg.Formats {
		if f == ok {
			return f, nil
		}
	}
	return "", errors.Newf("unsupported --format: %s (use %s)", flag, strings.Join(cfgpkg.Formats, "|"))
}

// render encodes v as markdown, json or yaml.
func render(format string, v any) ([]byte, error) {
	switch format {
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshal yaml")
		}
		return b, nil
	}
	switch m := v.(type) {
	case markdowner:
		return []byte(m.Markdown()), nil
	case []dataset.Summary:
		parts := make([]string, len(m))
		for i, s := range m {
			parts[i] = s.Markdown()
		}
		return []byte(strings.Join(parts, "\n")), nil
	}
	return nil, errors.Newf("cannot render %T as markdown", v)
}

// emit writes rendered output to path, or to the command's stdout when path is empty.
func emit(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote output to %s\n", path)
	return nil
}

// parseOptions turns the delimiter and locale flags into loader options.
func parseOptions(delim, decimal, thousands string) (dataset.Options, error) {
	var opt dataset.Options
	switch strings.ToLower(delim) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, errors.Newf("unsupported --delimiter: %s", delim)
	}
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case "":
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	default:
		return opt, errors.Newf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(thousands) {
	case "":
	case ",", "comma":
		opt.ThousandsSeparator = ','
	case ".", "dot":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	default:
		return opt, errors.Newf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if dec == opt.ThousandsSeparator {
		if strings.TrimSpace(decimal) == "" {
			return opt, errors.New("--thousands . requires --decimal comma")
		}
		return opt, errors.New("--decimal and --thousands must differ")
	}
	return opt, nil
}

// settings are the analysis knobs after applying project overrides to the
// global config.
type settings struct {
	PreviewRows   int
	HistogramBins int
	CorrDigits    int
}

func effectiveSettings(c *cfgpkg.Global, p *project.Project) settings {
	s := settings{PreviewRows: c.PreviewRows, HistogramBins: c.HistogramBins, CorrDigits: c.CorrDigits}
	if p == nil || p.Config == nil {
		return s
	}
	if p.Config.PreviewRows > 0 {
		s.PreviewRows = p.Config.PreviewRows
	}
	if p.Config.HistogramBins > 0 {
		s.HistogramBins = p.Config.HistogramBins
	}
	if p.Config.CorrDigits > 0 {
		s.CorrDigits = p.Config.CorrDigits
	}
	return s
}

// splitList splits comma-separated flag values, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
