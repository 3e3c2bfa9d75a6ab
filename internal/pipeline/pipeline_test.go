package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xelora/retailstream/internal/config"
	apperrors "github.com/xelora/retailstream/internal/errors"
	"github.com/xelora/retailstream/internal/parquet"
)

const sampleCSV = `Order ID,Order Date,Category,Region,Sales,Profit,Quantity
CA-2024-000001,03/01/2024,Technology,East,100.00,20.00,1
CA-2024-000002,03/01/2024,Technology,East,200.00,40.00,2
CA-2024-000003,03/01/2024,Furniture,West,300.00,-10.00,3
CA-2024-000004,03/02/2024,Furniture,West,50.00,5.00,1
`

func testConfig(t *testing.T, csvBody string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Input.Path = filepath.Join(dir, "retail_sales.csv")
	cfg.Storage.DataDir = filepath.Join(dir, "output")

	if err := os.WriteFile(cfg.Input.Path, []byte(csvBody), 0644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Transactions) != 4 {
		t.Errorf("transactions = %d, want 4", len(res.Transactions))
	}
	// Three distinct (day, category, region) buckets.
	if len(res.Rows) != 3 {
		t.Errorf("rollup rows = %d, want 3", len(res.Rows))
	}

	// The columnar file round-trips the rollup.
	stored, err := parquet.ReadTable(res.ParquetPath)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(stored) != len(res.Rows) {
		t.Errorf("stored rows = %d, want %d", len(stored), len(res.Rows))
	}

	// Metadata document accompanies the table.
	if _, err := os.Stat(res.MetadataPath); err != nil {
		t.Errorf("metadata file: %v", err)
	}
	if res.Metadata.CurrentSnapshotID != 1 {
		t.Errorf("current snapshot = %d, want 1", res.Metadata.CurrentSnapshotID)
	}
	if res.Metadata.Properties["write.parquet.compression-codec"] != "snappy" {
		t.Errorf("codec property = %q", res.Metadata.Properties["write.parquet.compression-codec"])
	}

	if _, err := os.Stat(res.CSVPath); err != nil {
		t.Errorf("csv export: %v", err)
	}

	// The full catalog ran.
	if len(res.Results) != 3 {
		t.Fatalf("catalog results = %d, want 3", len(res.Results))
	}
	top := res.Results[0]
	if top.Len() != 2 {
		t.Errorf("top categories rows = %d, want 2", top.Len())
	}
	if top.Len() > 0 && top.Rows[0][0] != "Furniture" {
		t.Errorf("top category = %v, want Furniture (revenue 350)", top.Rows[0][0])
	}

	if res.Summary == nil || res.Summary.Transactions != 4 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestRunBadInputWritesNothing(t *testing.T) {
	cfg := testConfig(t, `Order ID,Order Date,Category,Region,Sales,Profit,Quantity
CA-2024-000001,2024-03-01,Technology,East,100.00,20.00,1
`)

	_, err := Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if !apperrors.Is(err, apperrors.ErrMalformedDate) {
		t.Errorf("error = %v, want malformed date", err)
	}

	// A failed run leaves no table and no metadata behind.
	if _, err := os.Stat(cfg.ParquetPath()); !os.IsNotExist(err) {
		t.Error("parquet file should not exist after failed ingest")
	}
	if _, err := os.Stat(cfg.MetadataPath()); !os.IsNotExist(err) {
		t.Error("metadata file should not exist after failed ingest")
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input.Path = filepath.Join(t.TempDir(), "absent.csv")
	cfg.Storage.DataDir = t.TempDir()

	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
