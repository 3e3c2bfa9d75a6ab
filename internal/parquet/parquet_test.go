package parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	apperrors "github.com/xelora/retailstream/internal/errors"
	"github.com/xelora/retailstream/internal/types"
)

func sampleRows() []types.AggregateRow {
	return []types.AggregateRow{
		{
			Date:          "2024-03-15",
			Category:      "Technology",
			Region:        "East",
			TotalSales:    decimal.RequireFromString("600.00"),
			AvgSales:      decimal.RequireFromString("200.00"),
			TotalProfit:   decimal.RequireFromString("60.00"),
			AvgProfit:     decimal.RequireFromString("20.00"),
			TotalQuantity: 6,
			UniqueOrders:  3,
		},
		{
			Date:          "2024-03-16",
			Category:      "Furniture",
			Region:        "West",
			TotalSales:    decimal.RequireFromString("123.45"),
			AvgSales:      decimal.RequireFromString("123.45"),
			TotalProfit:   decimal.RequireFromString("-7.50"),
			AvgProfit:     decimal.RequireFromString("-7.50"),
			TotalQuantity: 4,
			UniqueOrders:  1,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_daily.parquet")

	if err := WriteTable(path, sampleRows(), DefaultOptions()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	want := sampleRows()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(&want[i]) {
			t.Errorf("row %d differs:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestRoundTripAllCodecs(t *testing.T) {
	for _, codec := range []string{"none", "snappy", "zstd", "lz4", "gzip"} {
		t.Run(codec, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table.parquet")
			opts := Options{Compression: ParseCompressionType(codec)}

			if err := WriteTable(path, sampleRows(), opts); err != nil {
				t.Fatalf("WriteTable: %v", err)
			}
			got, err := ReadTable(path)
			if err != nil {
				t.Fatalf("ReadTable: %v", err)
			}
			want := sampleRows()
			for i := range want {
				if !got[i].Equal(&want[i]) {
					t.Errorf("row %d not preserved under %s", i, codec)
				}
			}
		})
	}
}

func TestEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	if err := WriteTable(path, nil, DefaultOptions()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty table, got %d rows", len(got))
	}
}

func TestTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.parquet")
	if err := os.WriteFile(path, []byte("PAR1 not really a parquet file"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadTable(path)
	if err == nil {
		t.Fatal("expected error for truncated file")
	}
	if !apperrors.Is(err, apperrors.ErrCorruptFile) {
		t.Errorf("error = %v, want corrupt file", err)
	}
	if !apperrors.IsStorage(err) {
		t.Errorf("error should be a storage error: %v", err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	// A valid Parquet file with the wrong table shape.
	type otherRow struct {
		Name  string  `parquet:"name"`
		Value float64 `parquet:"value"`
	}

	path := filepath.Join(t.TempDir(), "other.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[otherRow](f)
	if _, err := w.Write([]otherRow{{Name: "x", Value: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = ReadTable(path)
	if err == nil {
		t.Fatal("expected schema mismatch")
	}
	if !apperrors.Is(err, apperrors.ErrSchemaMismatch) {
		t.Errorf("error = %v, want schema mismatch", err)
	}
}

func TestWriterClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.parquet")
	w, err := NewWriter(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("double close should be nil, got %v", err)
	}

	err = w.Write(sampleRows())
	if !apperrors.Is(err, apperrors.ErrWriterClosed) {
		t.Errorf("write after close = %v, want writer closed", err)
	}
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"snappy", CompressionSnappy},
		{"zstd", CompressionZstd},
		{"lz4", CompressionLZ4},
		{"gzip", CompressionGzip},
		{"none", CompressionNone},
		{"", CompressionNone},
		{"unknown", CompressionSnappy},
	}
	for _, tt := range tests {
		if got := ParseCompressionType(tt.in); got != tt.want {
			t.Errorf("ParseCompressionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
