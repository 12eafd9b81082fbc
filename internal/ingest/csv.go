package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/harborguide/internal/domain"
)

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ParseCSV reads a header row and the records below it into a block. Ragged
// rows are kept and flagged partial; blank lines are skipped.
func ParseCSV(kind domain.BlockKind, name string, r io.Reader) (domain.TabularBlock, error) {
	cr := newCSVReader(r)

	var header []string
	for header == nil {
		raw, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return domain.TabularBlock{}, fmt.Errorf("csv %q: %w", name, ErrNoHeader)
		}
		if err != nil {
			return domain.TabularBlock{}, fmt.Errorf("reading csv header: %w", err)
		}
		if !blankRow(raw) {
			header = cleanHeader(raw)
		}
	}

	var records []map[string]any
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.TabularBlock{}, fmt.Errorf("reading csv record %d: %w", len(records)+1, err)
		}
		if blankRow(cells) {
			continue
		}
		records = append(records, recordFromCells(header, cells))
	}

	return domain.NewTabularBlock(kind, name, header, records), nil
}
