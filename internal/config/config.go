package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ProjectsDir   string `mapstructure:"projects_dir" yaml:"projects_dir"`
	PreviewRows   int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	CorrDigits    int    `mapstructure:"corr_digits" yaml:"corr_digits"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat  string `mapstructure:"output_format" yaml:"output_format"`

	// Chart size in inches for --plots output
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"projects_dir", "preview_rows", "histogram_bins", "corr_digits", "max_upload_mb",
	"log_level", "output_format", "plot_width_in", "plot_height_in",
}

// Formats accepted by output_format and --format.
var Formats = []string{"markdown", "json", "yaml"}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, ".tabload"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabload/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "mkdir config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLOAD")
	v.AutomaticEnv()

	v.SetDefault("projects_dir", "")
	v.SetDefault("preview_rows", 10)
	v.SetDefault("histogram_bins", 10)
	v.SetDefault("corr_digits", 2)
	v.SetDefault("max_upload_mb", 16)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "markdown")
	v.SetDefault("plot_width_in", 5.0)
	v.SetDefault("plot_height_in", 3.5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config path must exist and parse
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if c.ProjectsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the commands cannot work with.
func (c *Global) Validate() error {
	switch {
	case c.PreviewRows < 0:
		return errors.Newf("preview_rows must be >= 0, got %d", c.PreviewRows)
	case c.HistogramBins < 1:
		return errors.Newf("histogram_bins must be >= 1, got %d", c.HistogramBins)
	case c.CorrDigits < 0 || c.CorrDigits > 15:
		return errors.Newf("corr_digits must be between 0 and 15, got %d", c.CorrDigits)
	case c.MaxUploadMB < 1:
		return errors.Newf("max_upload_mb must be >= 1, got %d", c.MaxUploadMB)
	case c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0:
		return errors.Newf("plot size must be positive, got %gx%g", c.PlotWidthIn, c.PlotHeightIn)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	if !validFormat(c.OutputFormat) {
		return errors.Newf("output_format must be one of %s, got %q", strings.Join(Formats, ", "), c.OutputFormat)
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Global) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Get returns the string form of a key's value.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "projects_dir":
		return c.ProjectsDir, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "histogram_bins":
		return strconv.Itoa(c.HistogramBins), nil
	case "corr_digits":
		return strconv.Itoa(c.CorrDigits), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "log_level":
		return c.LogLevel, nil
	case "output_format":
		return c.OutputFormat, nil
	case "plot_width_in":
		return strconv.FormatFloat(c.PlotWidthIn, 'g', -1, 64), nil
	case "plot_height_in":
		return strconv.FormatFloat(c.PlotHeightIn, 'g', -1, 64), nil
	}
	return "", errors.Newf("unknown key: %s", key)
}

// Set parses val into key and validates the result. On failure c is unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "projects_dir":
		next.ProjectsDir = val
	case "preview_rows", "histogram_bins", "corr_digits", "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil {
			return errors.Newf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "preview_rows":
			next.PreviewRows = i
		case "histogram_bins":
			next.HistogramBins = i
		case "corr_digits":
			next.CorrDigits = i
		default:
			next.MaxUploadMB = i
		}
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "output_format":
		next.OutputFormat = strings.ToLower(val)
	case "plot_width_in", "plot_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return errors.Newf("invalid float for %s: %v", key, val)
		}
		if key == "plot_width_in" {
			next.PlotWidthIn = f
		} else {
			next.PlotHeightIn = f
		}
	default:
		return errors.Newf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func validFormat(f string) bool {
	for _, ok := range Formats {
		if f == ok {
			return true
		}
	}
	return false
}
