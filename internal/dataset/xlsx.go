package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one worksheet of a workbook into a Table. An empty sheet
// name selects the first sheet. Rows whose cells are all blank are skipped,
// matching how blank CSV lines are treated.
func LoadXLSX(name string, r io.Reader, sheet string, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, newParseError(name, 0, fmt.Sprintf("open workbook: %v", err))
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, newParseError(name, 0, "workbook has no sheets")
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, newParseError(name, 0, fmt.Sprintf("read sheet %q: %v", sheet, err))
	}
	first := -1
	for i, rec := range rows {
		if !blankRow(rec) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, newParseError(name, 0, "empty input")
	}
	b := newBuilder(name, rows[first], opt)
	for i := first + 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		if err := b.addRow(rows[i], i+1); err != nil {
			return nil, err
		}
	}
	return b.build()
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
