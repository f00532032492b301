package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPreviewBoundsAndMarker(t *testing.T) {
	tbl := mustLoad(t, "b,a\n1,x\n,y\n3,\n")

	for _, n := range []int{0, 1, 3, 10} {
		rows := Preview(tbl, n)
		want := n
		if want > tbl.NumRows() {
			want = tbl.NumRows()
		}
		if len(rows) != want {
			t.Fatalf("Preview(%d) returned %d rows, want %d", n, len(rows), want)
		}
		for _, r := range rows {
			if len(r) != 2 {
				t.Fatalf("row %v missing columns", r)
			}
		}
	}

	rows := Preview(tbl, 3)
	if v, _ := rows[0].Get("b"); v != 1.0 {
		t.Fatalf("b[0] = %#v, want 1.0", v)
	}
	if v, _ := rows[1].Get("b"); v != NullMarker {
		t.Fatalf("b[1] = %#v, want %q", v, NullMarker)
	}
	if v, _ := rows[2].Get("a"); v != NullMarker {
		t.Fatalf("a[2] = %#v, want %q", v, NullMarker)
	}
	if _, ok := rows[0].Get("missing"); ok {
		t.Fatalf("unexpected column")
	}
}

func TestRowJSONKeepsColumnOrder(t *testing.T) {
	tbl := mustLoad(t, "zeta,alpha\n1,x\n")
	b, err := json.Marshal(Preview(tbl, 1)[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"zeta":1,"alpha":"x"}` {
		t.Fatalf("json = %s", b)
	}
}

func TestRowYAML(t *testing.T) {
	tbl := mustLoad(t, "zeta,alpha\n1,\n")
	b, err := yaml.Marshal(Preview(tbl, 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "zeta: 1") || !strings.Contains(out, "alpha: NaN") {
		t.Fatalf("yaml = %s", out)
	}
	if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
		t.Fatalf("yaml lost column order: %s", out)
	}
}

func TestDescribeAndMarkdown(t *testing.T) {
	tbl := mustLoad(t, "city,temp\nOslo,3\nRome,\nLima,19\n")
	s := Describe(tbl, 2)
	if s.Filename != "test.csv" || s.Shape != [2]int{3, 2} {
		t.Fatalf("summary = %+v", s)
	}
	if len(s.Preview) != 2 {
		t.Fatalf("preview rows = %d", len(s.Preview))
	}
	if s.MissingValues["temp"] != 1 || s.Kinds["temp"] != KindNumeric {
		t.Fatalf("summary temp = %d %s", s.MissingValues["temp"], s.Kinds["temp"])
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"filename"`, `"columns"`, `"preview"`, `"shape":[3,2]`, `"missing_values"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("json missing %s: %s", key, b)
		}
	}

	md := s.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: test.csv", "Rows: 3", "- temp: numeric (non-null 2, missing 33.3%)", "| city | temp |", "| Oslo | 3 |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
