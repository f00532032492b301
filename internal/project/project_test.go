package project_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/KaramelBytes/tabload/internal/project"
	"github.com/cockroachdb/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func kindOf(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

func TestAddDatasetCopiesAndRecords(t *testing.T) {
	tdir := t.TempDir()
	src := writeFile(t, tdir, "sales 2024.csv", "x,y\n1,a\n2,b\n")

	proj := project.NewProject("test", "", filepath.Join(tdir, "proj"))
	d, tbl, err := proj.AddDataset(src, 1<<20, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("AddDataset: %v", err)
	}
	if d.Filename != "sales_2024.csv" || d.Original != "sales 2024.csv" {
		t.Fatalf("record = %+v", d)
	}
	if d.ID == "" || d.Rows != 2 || strings.Join(d.Columns, ",") != "x,y" {
		t.Fatalf("record = %+v", d)
	}
	if tbl.Name != "sales_2024.csv" {
		t.Fatalf("table name = %q", tbl.Name)
	}
	if _, err := os.Stat(filepath.Join(proj.RootDir(), "uploads", "sales_2024.csv")); err != nil {
		t.Fatalf("upload not copied: %v", err)
	}
	if err := proj.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := project.LoadProject(proj.RootDir())
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	got, ok := loaded.DatasetByFilename("sales_2024.csv")
	if !ok || got.ID != d.ID {
		t.Fatalf("record not persisted: %+v", loaded.Datasets)
	}
	again, err := loaded.LoadTable("sales_2024.csv")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if again.NumRows() != 2 || again.Name != "sales_2024.csv" {
		t.Fatalf("reloaded table = %s with %d rows", again.Name, again.NumRows())
	}
}

func TestAddDatasetReplacesSameName(t *testing.T) {
	tdir := t.TempDir()
	proj := project.NewProject("test", "", filepath.Join(tdir, "proj"))
	first := writeFile(t, tdir, "a.csv", "x\n1\n")
	if _, _, err := proj.AddDataset(first, 0, dataset.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	second := writeFile(t, t.TempDir(), "a.csv", "x\n1\n2\n3\n")
	d, _, err := proj.AddDataset(second, 0, dataset.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(proj.Datasets) != 1 || d.Rows != 3 {
		t.Fatalf("datasets = %d, rows = %d", len(proj.Datasets), d.Rows)
	}
}

func TestAddDatasetRejections(t *testing.T) {
	tdir := t.TempDir()
	proj := project.NewProject("test", "", filepath.Join(tdir, "proj"))
	tests := []struct {
		name    string
		file    string
		content string
		limit   int64
		kind    string
	}{
		{name: "wrong extension", file: "notes.txt", content: "x\n1\n", kind: project.KindUnsupportedFile},
		{name: "too large", file: "big.csv", content: "x\n" + strings.Repeat("1\n", 100), limit: 10, kind: project.KindFileTooLarge},
		{name: "malformed", file: "bad.csv", content: "a,b\n1,2,3\n", kind: dataset.KindParseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, tdir, tt.file, tt.content)
			_, _, err := proj.AddDataset(src, tt.limit, dataset.DefaultOptions())
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := kindOf(err); got != tt.kind {
				t.Fatalf("kind = %q, want %q (%v)", got, tt.kind, err)
			}
			if _, err := os.Stat(filepath.Join(proj.RootDir(), "uploads", tt.file)); !os.IsNotExist(err) {
				t.Fatalf("rejected file was copied")
			}
		})
	}
	if len(proj.Datasets) != 0 {
		t.Fatalf("rejected uploads were recorded: %v", proj.Datasets)
	}
}

func TestRemoveAndMissingDataset(t *testing.T) {
	tdir := t.TempDir()
	proj := project.NewProject("test", "", filepath.Join(tdir, "proj"))
	src := writeFile(t, tdir, "a.csv", "x\n1\n")
	d, _, err := proj.AddDataset(src, 0, dataset.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := proj.RemoveDataset("a.csv"); err != nil {
		t.Fatalf("RemoveDataset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(proj.RootDir(), d.Path)); !os.IsNotExist(err) {
		t.Fatalf("upload file still present")
	}
	_, err = proj.LoadTable("a.csv")
	if kindOf(err) != project.KindDatasetNotFound {
		t.Fatalf("LoadTable err = %v", err)
	}
	if kindOf(proj.RemoveDataset("a.csv")) != project.KindDatasetNotFound {
		t.Fatalf("expected not found on second remove")
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.csv": true, "A.CSV": true, "b.tsv": true, "c.xlsx": true,
		"d.xls": false, "e.txt": false, "csv": false,
	} {
		if got := project.Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLoadTableUsesUploadOptions(t *testing.T) {
	tdir := t.TempDir()
	proj := project.NewProject("test", "", filepath.Join(tdir, "proj"))
	src := writeFile(t, tdir, "eu.csv", "price;city\n1.234,5;Paris\n2,25;Lyon\n")
	opt := dataset.Options{Delimiter: ';', DecimalSeparator: ',', ThousandsSeparator: '.'}
	if _, _, err := proj.AddDataset(src, 0, opt); err != nil {
		t.Fatalf("AddDataset: %v", err)
	}
	if err := proj.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := project.LoadProject(proj.RootDir())
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := loaded.LoadTable("eu.csv")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	price, ok := tbl.Column("price")
	if !ok || price.Kind != dataset.KindNumeric {
		t.Fatalf("price column = %+v", price)
	}
	if got := price.Floats(); len(got) != 2 || got[0] != 1234.5 || got[1] != 2.25 {
		t.Fatalf("prices = %v", got)
	}
}
