package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet written by WriteWorkbook; Rows[0] is usually the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves sheets, in order, to name inside a temp directory and
// returns the path.
func WriteWorkbook(t *testing.T, name string, sheets ...Sheet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	SaveWorkbook(t, path, sheets...)
	return path
}

// SaveWorkbook writes sheets to path, replacing any existing file.
func SaveWorkbook(t *testing.T, path string, sheets ...Sheet) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("renaming first sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("creating sheet %s: %v", s.Name, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				t.Fatalf("writing %s row %d: %v", s.Name, r+1, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
}
