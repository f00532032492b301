package analysis

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Machine-readable error kinds surfaced to callers.
const (
	KindColumnNotFound = "column_not_found"
	KindEmptySelection = "empty_selection"
)

// ColumnNotFoundError reports a requested column missing from one of the
// selected tables.
type ColumnNotFoundError struct {
	Table      string
	TableIndex int
	Column     string
	Available  []string
}

func (e *ColumnNotFoundError) Error() string {
	table := e.Table
	if table == "" {
		table = fmt.Sprintf("table #%d", e.TableIndex+1)
	}
	msg := fmt.Sprintf("column %q not found in %s", e.Column, table)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

func (e *ColumnNotFoundError) Kind() string { return KindColumnNotFound }

func (e *ColumnNotFoundError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", KindColumnNotFound).
		Str("dataset", e.Table).
		Int("table_index", e.TableIndex).
		Str("column", e.Column)
}

// EmptySelectionError reports that no files or no columns were chosen.
type EmptySelectionError struct {
	What string // "files" or "columns"
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("no %s selected", e.What)
}

func (e *EmptySelectionError) Kind() string { return KindEmptySelection }

func (e *EmptySelectionError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", KindEmptySelection).Str("missing", e.What)
}

// ErrorKind returns the kind of a structured failure in err's chain, or ""
// when err carries none.
func ErrorKind(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
