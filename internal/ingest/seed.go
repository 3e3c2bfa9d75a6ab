package ingest

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/xelora/retailstream/internal/types"
)

var (
	seedCategories = []string{"Furniture", "Technology", "Office Supplies"}
	seedRegions    = []string{"South", "West", "Central", "East"}
)

// Seed writes a deterministic sample transaction file with n rows.
// It exists to bootstrap a demo run when no real input is available.
func Seed(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create seed file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Row ID", "Order ID", "Order Date", "Category", "Region", "Sales", "Profit", "Quantity"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(42))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= n; i++ {
		// One order per hour, so n rows span n/24 calendar days.
		date := start.Add(time.Duration(i-1) * time.Hour)

		sales := 10 + rng.Float64()*990
		profit := -50 + rng.Float64()*350
		quantity := 1 + rng.Intn(9)

		row := []string{
			strconv.Itoa(i),
			fmt.Sprintf("CA-2024-%06d", i),
			date.Format(types.DateLayout),
			seedCategories[rng.Intn(len(seedCategories))],
			seedRegions[rng.Intn(len(seedRegions))],
			strconv.FormatFloat(sales, 'f', 2, 64),
			strconv.FormatFloat(profit, 'f', 2, 64),
			strconv.Itoa(quantity),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}
