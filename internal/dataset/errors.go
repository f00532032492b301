package dataset

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// KindParseError is the machine-readable kind reported for malformed input.
const KindParseError = "parse_error"

// ParseError reports input that is not well-formed delimited text.
type ParseError struct {
	Name   string
	Line   int // 1-based; 0 when not tied to a line
	Reason string
}

func (e *ParseError) Error() string {
	name := e.Name
	if name == "" {
		name = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", name, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse %s: %s", name, e.Reason)
}

// Kind returns KindParseError.
func (e *ParseError) Kind() string { return KindParseError }

// MarshalZerologObject adds the structured error fields to a log event.
func (e *ParseError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", KindParseError).
		Str("dataset", e.Name).
		Int("line", e.Line).
		Str("reason", e.Reason)
}

func newParseError(name string, line int, reason string) error {
	return errors.WithStack(&ParseError{Name: name, Line: line, Reason: reason})
}
