package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	apperrors "github.com/xelora/retailstream/internal/errors"
	"github.com/xelora/retailstream/internal/types"
)

// Reader reads aggregate rows from a Parquet file.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[aggRow]
	path   string
}

// NewReader opens an aggregate Parquet file. The file footer and schema are
// validated up front: a truncated file or a table with the wrong columns is
// rejected before any row is returned.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet file: %v: %w", err, apperrors.ErrCorruptFile)
	}

	if err := validateSchema(pf); err != nil {
		f.Close()
		return nil, err
	}

	reader := parquet.NewGenericReader[aggRow](f)

	return &Reader{
		file:   f,
		reader: reader,
		path:   path,
	}, nil
}

// validateSchema checks the file's columns against the aggregate table shape.
func validateSchema(pf *parquet.File) error {
	fields := pf.Schema().Fields()
	want := types.Columns()

	if len(fields) != len(want) {
		return fmt.Errorf("expected %d columns, found %d: %w",
			len(want), len(fields), apperrors.ErrSchemaMismatch)
	}
	for i, field := range fields {
		if field.Name() != want[i] {
			return fmt.Errorf("column %d: expected %q, found %q: %w",
				i, want[i], field.Name(), apperrors.ErrSchemaMismatch)
		}
	}
	return nil
}

// ReadAll reads the complete aggregate table.
func (r *Reader) ReadAll() ([]types.AggregateRow, error) {
	numRows := r.reader.NumRows()
	if numRows == 0 {
		return []types.AggregateRow{}, nil
	}

	rows := make([]aggRow, numRows)
	n, err := r.reader.Read(rows)
	if err != nil && int64(n) != numRows {
		return nil, fmt.Errorf("read rows: %v: %w", err, apperrors.ErrCorruptFile)
	}

	results := make([]types.AggregateRow, n)
	for i := 0; i < n; i++ {
		results[i] = aggregateFromRow(&rows[i])
	}

	return results, nil
}

// NumRows returns the total number of rows in the file.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Close closes the reader.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.path
}

// ReadTable reads a complete aggregate table from path in one call.
func ReadTable(path string) ([]types.AggregateRow, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}
