package analysis

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/cockroachdb/errors"
)

func load(t *testing.T, name, text string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Load(name, strings.NewReader(text), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return tbl
}

func TestCombineConcatenatesInFileOrder(t *testing.T) {
	a := load(t, "a.csv", "x,y,extra\n1,a,q\n2,b,q\n3,a,q\n")
	b := load(t, "b.csv", "y,x\nb,4\n")

	got, err := Combine([]*dataset.Table{a, b}, []string{"y", "x"})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if names := got.ColumnNames(); strings.Join(names, ",") != "y,x" {
		t.Fatalf("columns = %v, want request order y,x", names)
	}
	if got.NumRows() != 4 {
		t.Fatalf("rows = %d, want 4", got.NumRows())
	}
	x, _ := got.Column("x")
	if fl := x.Floats(); len(fl) != 4 || fl[0] != 1 || fl[3] != 4 {
		t.Fatalf("x = %v, want [1 2 3 4]", fl)
	}
	if x.Kind != dataset.KindNumeric {
		t.Fatalf("x kind = %s", x.Kind)
	}
	if got.Name != "a.csv+b.csv" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestCombineIsAssociativeOnRows(t *testing.T) {
	a := load(t, "a.csv", "x,y\n1,a\n,b\n3,\n")
	b := load(t, "b.csv", "x,y\n4,c\n5,d\n")
	cols := []string{"x", "y"}

	ab, err := Combine([]*dataset.Table{a, b}, cols)
	if err != nil {
		t.Fatalf("Combine ab: %v", err)
	}
	onlyA, _ := Combine([]*dataset.Table{a}, cols)
	onlyB, _ := Combine([]*dataset.Table{b}, cols)

	for _, name := range cols {
		whole, _ := ab.Column(name)
		ca, _ := onlyA.Column(name)
		cb, _ := onlyB.Column(name)
		parts := cb.AppendCells(ca.AppendCells(nil))
		if whole.Len() != len(parts) {
			t.Fatalf("%s: len %d, want %d", name, whole.Len(), len(parts))
		}
		for i, cell := range parts {
			if whole.Cell(i) != cell {
				t.Fatalf("%s[%d] = %+v, want %+v", name, i, whole.Cell(i), cell)
			}
		}
	}
}

func TestCombineReclassifiesMergedColumns(t *testing.T) {
	a := load(t, "a.csv", "v\n1\n2\n")
	b := load(t, "b.csv", "v\nhigh\n")
	c, _ := a.Column("v")
	if c.Kind != dataset.KindNumeric {
		t.Fatalf("source kind = %s", c.Kind)
	}
	got, err := Combine([]*dataset.Table{a, b}, []string{"v"})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	v, _ := got.Column("v")
	if v.Kind != dataset.KindCategorical {
		t.Fatalf("merged kind = %s, want categorical", v.Kind)
	}
}

func TestCombineMissingColumn(t *testing.T) {
	a := load(t, "a.csv", "x,z\n1,2\n")
	b := load(t, "b.csv", "x\n3\n")

	got, err := Combine([]*dataset.Table{a, b}, []string{"z"})
	if got != nil {
		t.Fatalf("expected no partial result, got %v", got.ColumnNames())
	}
	var cnf *ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("error = %v, want ColumnNotFoundError", err)
	}
	if cnf.Table != "b.csv" || cnf.Column != "z" || cnf.TableIndex != 1 {
		t.Fatalf("error fields = %+v", cnf)
	}
	if ErrorKind(err) != KindColumnNotFound {
		t.Fatalf("kind = %q", ErrorKind(err))
	}
	if !strings.Contains(err.Error(), `column "z" not found in b.csv`) {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestCombineEmptySelection(t *testing.T) {
	a := load(t, "a.csv", "x\n1\n")
	tests := []struct {
		name   string
		tables []*dataset.Table
		cols   []string
		what   string
	}{
		{name: "no files", tables: nil, cols: []string{"x"}, what: "files"},
		{name: "no columns", tables: []*dataset.Table{a}, cols: nil, what: "columns"},
		{name: "both empty", tables: nil, cols: nil, what: "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Combine(tt.tables, tt.cols)
			var ese *EmptySelectionError
			if !errors.As(err, &ese) {
				t.Fatalf("error = %v, want EmptySelectionError", err)
			}
			if ese.What != tt.what {
				t.Fatalf("what = %q, want %q", ese.What, tt.what)
			}
			if ErrorKind(err) != KindEmptySelection {
				t.Fatalf("kind = %q", ErrorKind(err))
			}
		})
	}
}

func TestCombineCollapsesDuplicateColumns(t *testing.T) {
	a := load(t, "a.csv", "x,y\n1,2\n")
	got, err := Combine([]*dataset.Table{a}, []string{"y", "x", "y"})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if names := got.ColumnNames(); strings.Join(names, ",") != "y,x" {
		t.Fatalf("columns = %v", names)
	}
}
