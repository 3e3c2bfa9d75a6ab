package parquet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/shopspring/decimal"

	apperrors "github.com/xelora/retailstream/internal/errors"
	"github.com/xelora/retailstream/internal/types"
)

// Options configures the Parquet writer.
type Options struct {
	// Compression algorithm
	Compression CompressionType
}

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default Parquet options. Snappy is the table
// format's default codec.
func DefaultOptions() Options {
	return Options{
		Compression: CompressionSnappy,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) CompressionType {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zstd":
		return CompressionZstd
	case "lz4":
		return CompressionLZ4
	case "gzip":
		return CompressionGzip
	case "none", "":
		return CompressionNone
	default:
		return CompressionSnappy
	}
}

// String returns the codec name as recorded in table metadata properties.
func (ct CompressionType) String() string {
	switch ct {
	case CompressionSnappy:
		return "snappy"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	default:
		return "none"
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// aggRow is the Parquet representation of an AggregateRow. Field order
// defines the column order of the file.
type aggRow struct {
	Date     string `parquet:"date"`
	Category string `parquet:"category"`
	Region   string `parquet:"region"`

	TotalSales  float64 `parquet:"total_sales"`
	AvgSales    float64 `parquet:"avg_sales"`
	TotalProfit float64 `parquet:"total_profit"`
	AvgProfit   float64 `parquet:"avg_profit"`

	TotalQuantity int64 `parquet:"total_quantity"`
	UniqueOrders  int64 `parquet:"unique_orders"`
}

// rowFromAggregate converts an AggregateRow to its Parquet representation.
func rowFromAggregate(r *types.AggregateRow) aggRow {
	return aggRow{
		Date:          r.Date,
		Category:      r.Category,
		Region:        r.Region,
		TotalSales:    r.TotalSales.InexactFloat64(),
		AvgSales:      r.AvgSales.InexactFloat64(),
		TotalProfit:   r.TotalProfit.InexactFloat64(),
		AvgProfit:     r.AvgProfit.InexactFloat64(),
		TotalQuantity: r.TotalQuantity,
		UniqueOrders:  r.UniqueOrders,
	}
}

// aggregateFromRow converts a Parquet row back to an AggregateRow.
func aggregateFromRow(r *aggRow) types.AggregateRow {
	return types.AggregateRow{
		Date:          r.Date,
		Category:      r.Category,
		Region:        r.Region,
		TotalSales:    decimal.NewFromFloat(r.TotalSales),
		AvgSales:      decimal.NewFromFloat(r.AvgSales),
		TotalProfit:   decimal.NewFromFloat(r.TotalProfit),
		AvgProfit:     decimal.NewFromFloat(r.AvgProfit),
		TotalQuantity: r.TotalQuantity,
		UniqueOrders:  r.UniqueOrders,
	}
}

// Writer writes aggregate rows to a Parquet file.
type Writer struct {
	path     string
	file     *os.File
	writer   *parquet.GenericWriter[aggRow]
	rowCount int64
	closed   bool
}

// NewWriter creates a new aggregate Parquet writer.
func NewWriter(path string, opts Options) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	writerOpts := []parquet.WriterOption{
		parquet.Compression(getCompression(opts.Compression)),
	}

	writer := parquet.NewGenericWriter[aggRow](f, writerOpts...)

	return &Writer{
		path:   path,
		file:   f,
		writer: writer,
	}, nil
}

// Write writes aggregate rows to the Parquet file.
func (w *Writer) Write(rows []types.AggregateRow) error {
	if w.closed {
		return apperrors.ErrWriterClosed
	}
	if len(rows) == 0 {
		return nil
	}

	out := make([]aggRow, len(rows))
	for i := range rows {
		out[i] = rowFromAggregate(&rows[i])
	}

	n, err := w.writer.Write(out)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	w.rowCount += int64(n)
	return nil
}

// Close flushes and closes the writer. A zero-row file is still a valid,
// readable table.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return w.file.Close()
}

// RowCount returns the number of rows written.
func (w *Writer) RowCount() int64 {
	return w.rowCount
}

// Path returns the file path.
func (w *Writer) Path() string {
	return w.path
}

// WriteTable writes a complete aggregate table to path in one call.
func WriteTable(path string, rows []types.AggregateRow, opts Options) error {
	w, err := NewWriter(path, opts)
	if err != nil {
		return err
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
