package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

func mustLoad(t *testing.T, text string) *Table {
	t.Helper()
	tbl, err := Load("test.csv", strings.NewReader(text), DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func TestLoadInfersKindsAndNulls(t *testing.T) {
	tbl := mustLoad(t, "id,score,label,empty\n1,2.5,a,\n2,,b,\n3,NaN,,NA\n4,1e3,c,\n")

	rows, cols := tbl.Shape()
	if rows != 4 || cols != 4 {
		t.Fatalf("shape = (%d, %d), want (4, 4)", rows, cols)
	}
	want := map[string]Kind{
		"id":    KindNumeric,
		"score": KindNumeric,
		"label": KindCategorical,
		"empty": KindCategorical,
	}
	for name, kind := range want {
		c, ok := tbl.Column(name)
		if !ok {
			t.Fatalf("missing column %q", name)
		}
		if c.Kind != kind {
			t.Errorf("%s kind = %s, want %s", name, c.Kind, kind)
		}
	}
	score, _ := tbl.Column("score")
	got := score.Floats()
	if len(got) != 2 || got[0] != 2.5 || got[1] != 1000 {
		t.Fatalf("score floats = %v", got)
	}
	nulls := NullCounts(tbl)
	if nulls["score"] != 2 || nulls["label"] != 1 || nulls["empty"] != 4 || nulls["id"] != 0 {
		t.Fatalf("null counts = %#v", nulls)
	}
}

func TestLoadMixedColumnIsCategorical(t *testing.T) {
	tbl := mustLoad(t, "x\n1\n2\nthree\n")
	c, _ := tbl.Column("x")
	if c.Kind != KindCategorical {
		t.Fatalf("kind = %s, want categorical", c.Kind)
	}
	if c.NullCount() != 0 {
		t.Fatalf("unparseable text must not become null")
	}
}

func TestLoadPadsShortRows(t *testing.T) {
	tbl := mustLoad(t, "a,b,c\n1,2\n3\n")
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	c, _ := tbl.Column("c")
	if c.NullCount() != 2 {
		t.Fatalf("c nulls = %d, want 2", c.NullCount())
	}
	b, _ := tbl.Column("b")
	if !b.Cell(1).Null || b.Cell(0).Num != 2 {
		t.Fatalf("b cells = %+v %+v", b.Cell(0), b.Cell(1))
	}
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "empty", input: "", line: 0},
		{name: "only newlines", input: "\n\n", line: 0},
		{name: "too many fields", input: "a,b\n1,2\n3,4,5\n", line: 3},
		{name: "bare quote", input: "a,b\n1,x\"y\"\n", line: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("bad.csv", strings.NewReader(tt.input), DefaultOptions())
			if err == nil {
				t.Fatalf("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError: %v", err, err)
			}
			if pe.Kind() != KindParseError {
				t.Fatalf("kind = %q", pe.Kind())
			}
			if tt.line > 0 && pe.Line != tt.line {
				t.Fatalf("line = %d, want %d (%v)", pe.Line, tt.line, err)
			}
		})
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	tbl := mustLoad(t, "a,b\n")
	rows, cols := tbl.Shape()
	if rows != 0 || cols != 2 {
		t.Fatalf("shape = (%d, %d), want (0, 2)", rows, cols)
	}
	for _, c := range tbl.Columns() {
		if c.Kind != KindCategorical {
			t.Fatalf("%s: empty column must be categorical", c.Name)
		}
	}
}

func TestLoadDisambiguatesDuplicateHeaders(t *testing.T) {
	tbl := mustLoad(t, "x,x,,x,x.1\n1,2,3,4,5\n")
	want := []string{"x", "x.1", "Unnamed: 2", "x.2", "x.1.1"}
	got := tbl.ColumnNames()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("names = %q, want %q", got, want)
	}
	c, _ := tbl.Column("x.2")
	if c.Cell(0).Num != 4 {
		t.Fatalf("x.2 = %+v, want 4", c.Cell(0))
	}
}

func TestLoadTrimsBOMAndWhitespace(t *testing.T) {
	tbl := mustLoad(t, "\ufeff id , name\n 7 , bob \n")
	if got := tbl.ColumnNames(); got[0] != "id" || got[1] != "name" {
		t.Fatalf("names = %q", got)
	}
	name, _ := tbl.Column("name")
	if name.Cell(0).Text != "bob" {
		t.Fatalf("text = %q", name.Cell(0).Text)
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{in: "42", want: 42, ok: true},
		{in: "-3.5e2", want: -350, ok: true},
		{in: ".5", want: 0.5, ok: true},
		{in: "inf", ok: false},
		{in: "0x10", ok: false},
		{in: "1_000", ok: false},
		{in: "1,000", ok: false},
		{in: "1.000,5", opt: Options{DecimalSeparator: ',', ThousandsSeparator: '.'}, want: 1000.5, ok: true},
		{in: "1.5", opt: Options{ThousandsSeparator: '.'}, want: 1.5, ok: true},
		{in: "1,234.5", opt: Options{ThousandsSeparator: ','}, want: 1234.5, ok: true},
		{in: "abc", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseNumeric(tt.in, tt.opt)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseNumeric(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadFileTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(path, []byte("a\tb\n1\tx\n2\ty\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tbl.Name != "data.tsv" {
		t.Fatalf("name = %q", tbl.Name)
	}
	a, _ := tbl.Column("a")
	if a.Kind != KindNumeric || tbl.NumRows() != 2 {
		t.Fatalf("unexpected table: kind=%s rows=%d", a.Kind, tbl.NumRows())
	}
}

func TestTableWithNameLeavesOriginal(t *testing.T) {
	tbl := mustLoad(t, "a,b\n1,x\n")
	renamed := tbl.WithName("upload.csv")
	if tbl.Name != "test.csv" || renamed.Name != "upload.csv" {
		t.Fatalf("names = %q, %q", tbl.Name, renamed.Name)
	}
	if rows, cols := renamed.Shape(); rows != 1 || cols != 2 {
		t.Fatalf("renamed shape = %d x %d", rows, cols)
	}
	a, ok := renamed.Column("a")
	if orig, _ := tbl.Column("a"); !ok || a != orig {
		t.Fatalf("renamed table must share columns")
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "x", "B1": "y",
		"A2": 1, "B2": "a",
		"A3": 2, "B3": "b",
		"A5": 3,
	}
	for ref, v := range cells {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatalf("set %s: %v", ref, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	tbl, err := LoadXLSX("book.xlsx", buf, "", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3 (blank row skipped)", tbl.NumRows())
	}
	x, _ := tbl.Column("x")
	if x.Kind != KindNumeric {
		t.Fatalf("x kind = %s", x.Kind)
	}
	y, _ := tbl.Column("y")
	if !y.Cell(2).Null {
		t.Fatalf("short row must pad y with null")
	}
}

func TestLoadXLSXRejectsGarbage(t *testing.T) {
	_, err := LoadXLSX("junk.xlsx", strings.NewReader("not a zip"), "", DefaultOptions())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
