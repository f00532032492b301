package project

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/rs/zerolog"
)

// Dataset records one uploaded file. Path is relative to the project root.
type Dataset struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Original   string    `json:"original,omitempty"`
	Path       string    `json:"path"`
	Columns    []string  `json:"columns"`
	Rows       int       `json:"rows"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`

	// Parse settings given at upload; empty means the defaults for the extension.
	Delimiter string `json:"delimiter,omitempty"`
	Decimal   string `json:"decimal,omitempty"`
	Thousands string `json:"thousands,omitempty"`
	Sheet     string `json:"sheet,omitempty"`
}

// Options returns the parse settings recorded for the file.
func (d *Dataset) Options() dataset.Options {
	return dataset.Options{
		Delimiter:          firstRune(d.Delimiter),
		DecimalSeparator:   firstRune(d.Decimal),
		ThousandsSeparator: firstRune(d.Thousands),
		Sheet:              d.Sheet,
	}
}

func (d *Dataset) setOptions(opt dataset.Options) {
	d.Delimiter = runeString(opt.Delimiter)
	d.Decimal = runeString(opt.DecimalSeparator)
	d.Thousands = runeString(opt.ThousandsSeparator)
	d.Sheet = opt.Sheet
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func runeString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

// Machine-readable kinds for upload and lookup failures.
const (
	KindUnsupportedFile = "unsupported_file"
	KindFileTooLarge    = "file_too_large"
	KindDatasetNotFound = "dataset_not_found"
)

// UploadError reports a file rejected before it reached the project.
type UploadError struct {
	Filename string
	Reason   string
	kind     string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s", e.Filename, e.Reason)
}

func (e *UploadError) Kind() string { return e.kind }

func (e *UploadError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", e.kind).Str("dataset", e.Filename).Str("reason", e.Reason)
}

// DatasetNotFoundError reports a filename with no upload record.
type DatasetNotFoundError struct {
	Project  string
	Filename string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset %q not found in project %s", e.Filename, e.Project)
}

func (e *DatasetNotFoundError) Kind() string { return KindDatasetNotFound }
