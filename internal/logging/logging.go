// Package logging builds the zerolog logger shared by the CLI commands.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Standard field keys so log lines can be filtered consistently.
const (
	DatasetKey  = "dataset"
	ProjectKey  = "project"
	RowsKey     = "rows"
	ColumnsKey  = "columns"
	DurationKey = "duration"
	KindKey     = "kind"
)

// New returns a console logger writing to w. debug forces the debug level;
// otherwise level is parsed case-insensitively, with "" meaning info.
func New(w io.Writer, level string, debug bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if debug {
		lvl = zerolog.DebugLevel
	} else if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "log level %q", level)
		}
		lvl = parsed
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Discard returns a logger that drops everything.
func Discard() zerolog.Logger { return zerolog.Nop() }
