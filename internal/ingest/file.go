package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/harborguide/internal/domain"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// ReadFile loads blocks from a workbook (.xlsx, .xlsm), a CSV file or a JSON
// array of records. CSV and JSON files yield one block named after the file.
func ReadFile(path string) ([]domain.TabularBlock, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch ext {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		block, err := ParseCSV(domain.BlockSheet, name, f)
		if err != nil {
			return nil, err
		}
		return []domain.TabularBlock{block}, nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		header, records, err := DecodeRecords(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []domain.TabularBlock{domain.NewTabularBlock(domain.BlockSheet, name, header, records)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
}
