package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xelora/retailstream/internal/types"
)

// WriteCSV exports the rollup as a CSV file for spreadsheet use, ordered by
// (date, category, region). Monetary columns carry two decimal places.
func WriteCSV(path string, rows []types.AggregateRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	ordered := make([]types.AggregateRow, len(rows))
	copy(ordered, rows)
	SortRows(ordered)

	w := csv.NewWriter(f)
	if err := w.Write(types.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range ordered {
		r := &ordered[i]
		record := []string{
			r.Date, r.Category, r.Region,
			r.TotalSales.StringFixed(2), r.AvgSales.StringFixed(2),
			r.TotalProfit.StringFixed(2), r.AvgProfit.StringFixed(2),
			strconv.FormatInt(r.TotalQuantity, 10),
			strconv.FormatInt(r.UniqueOrders, 10),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
