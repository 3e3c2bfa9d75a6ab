package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "github.com/xelora/retailstream/internal/errors"
)

// Required columns in the input file. Extra columns are carried through
// untouched; the normalizer only reads these.
var requiredColumns = []string{
	"Order ID", "Order Date", "Category", "Region", "Sales", "Profit", "Quantity",
}

// RawRecord is one input row with header-named fields.
type RawRecord struct {
	// Line is the 1-based line number in the source file, counting the header.
	Line int

	Fields map[string]string
}

// ReadFile reads a delimited transaction file into raw records.
// The first row must be a header naming all required columns.
func ReadFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read reads raw records from an already-open source.
func Read(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, apperrors.NewMissingColumn(name)
		}
	}

	var records []RawRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		fields := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(row) {
				fields[name] = row[i]
			}
		}
		records = append(records, RawRecord{Line: line, Fields: fields})
	}

	return records, nil
}
