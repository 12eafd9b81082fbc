package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// ReadWorkbook returns one sheet block per worksheet, in workbook order.
func ReadWorkbook(path string) ([]domain.TabularBlock, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()
	return sheetBlocks(f)
}

// ReadWorkbookFrom is ReadWorkbook for an in-memory workbook.
func ReadWorkbookFrom(r io.Reader) ([]domain.TabularBlock, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return sheetBlocks(f)
}

func sheetBlocks(f *excelize.File) ([]domain.TabularBlock, error) {
	sheets := f.GetSheetList()
	blocks := make([]domain.TabularBlock, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		blocks = append(blocks, sheetBlock(sheet, rows))
	}
	return blocks, nil
}

// sheetBlock treats the first non-blank row as the header and skips blank
// rows below it. A sheet without any content yields an empty block.
func sheetBlock(name string, rows [][]string) domain.TabularBlock {
	var (
		header  []string
		records []map[string]any
	)
	for _, cells := range rows {
		if blankRow(cells) {
			continue
		}
		if header == nil {
			header = cleanHeader(cells)
			continue
		}
		// trailing blank cells are trimmed by excelize
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		records = append(records, recordFromCells(header, cells))
	}
	return domain.NewTabularBlock(domain.BlockSheet, name, header, records)
}
