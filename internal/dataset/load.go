package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Options controls how raw text is turned into a Table.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used (LoadFile picks '\t' for .tsv).
	Delimiter rune
	// Numeric parsing locale. A zero DecimalSeparator means '.'; a thousands
	// separator equal to the decimal one is ignored.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// DefaultOptions returns comma-delimited parsing with '.' decimals.
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// nullTokens are the field values read as missing, after trimming.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Load parses delimited text with a header row into a Table.
func Load(name string, r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = opt.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newParseError(name, 0, "empty input")
		}
		return nil, csvError(name, err)
	}
	b := newBuilder(name, header, opt)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, csvError(name, err)
		}
		line, _ := cr.FieldPos(0)
		if err := b.addRow(rec, line); err != nil {
			return nil, err
		}
	}
	return b.build()
}

// LoadFile reads a dataset from disk, choosing the reader by extension.
func LoadFile(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(name, f, opt.Sheet, opt)
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return Load(name, f, opt)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return newParseError(name, pe.Line, pe.Err.Error())
	}
	return newParseError(name, 0, err.Error())
}

// builder accumulates rows column-wise.
type builder struct {
	name  string
	names []string
	cells [][]Cell
	opt   Options
}

func newBuilder(name string, header []string, opt Options) *builder {
	return &builder{
		name:  name,
		names: uniqueNames(header),
		cells: make([][]Cell, len(header)),
		opt:   opt,
	}
}

// uniqueNames trims header cells, names blanks "Unnamed: i" and suffixes
// repeats with ".1", ".2", ... in order of appearance.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			for k := 1; ; k++ {
				cand := fmt.Sprintf("%s.%d", name, k)
				if !used[cand] {
					name = cand
					break
				}
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func (b *builder) addRow(rec []string, line int) error {
	if len(rec) > len(b.names) {
		return newParseError(b.name, line, fmt.Sprintf("expected %d fields, saw %d", len(b.names), len(rec)))
	}
	for j := range b.names {
		if j >= len(rec) {
			b.cells[j] = append(b.cells[j], Cell{Null: true})
			continue
		}
		b.cells[j] = append(b.cells[j], parseCell(rec[j], b.opt))
	}
	return nil
}

func (b *builder) build() (*Table, error) {
	cols := make([]*Column, len(b.names))
	for j, name := range b.names {
		cols[j] = NewColumn(name, b.cells[j])
	}
	return NewTable(b.name, cols)
}

func parseCell(raw string, opt Options) Cell {
	s := strings.TrimSpace(raw)
	if _, ok := nullTokens[s]; ok {
		return Cell{Null: true}
	}
	c := Cell{Text: s}
	if x, ok := parseNumeric(s, opt); ok {
		c.Num = x
		c.Numeric = true
	}
	return c
}

// parseNumeric accepts finite decimal or scientific notation. Hex floats,
// digit separators and infinities are left as text.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.ContainsAny(raw, "_xXpP") {
		return 0, false
	}
	dec, thou := opt.DecimalSeparator, opt.ThousandsSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != 0 && dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
