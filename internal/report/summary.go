package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/shopspring/decimal"

	"github.com/xelora/retailstream/internal/types"
)

// Summary describes one completed pipeline run.
type Summary struct {
	// Volume
	Transactions  int
	AggregateRows int

	// Dimension coverage
	Categories int
	Regions    int
	FirstDay   string
	LastDay    string

	// Totals across the whole table
	TotalSales    decimal.Decimal
	TotalProfit   decimal.Decimal
	MarginPercent decimal.Decimal

	// Per-transaction sale amount distribution
	SalesP50 float64
	SalesP90 float64
	SalesP95 float64
	SalesP99 float64
}

// BuildSummary computes the run summary from the normalized transactions and
// the rollup rows they produced.
func BuildSummary(txs []types.Transaction, rows []types.AggregateRow) *Summary {
	s := &Summary{
		Transactions:  len(txs),
		AggregateRows: len(rows),
	}

	categories := make(map[string]struct{})
	regions := make(map[string]struct{})
	for i := range rows {
		r := &rows[i]
		categories[r.Category] = struct{}{}
		regions[r.Region] = struct{}{}
		if s.FirstDay == "" || r.Date < s.FirstDay {
			s.FirstDay = r.Date
		}
		if r.Date > s.LastDay {
			s.LastDay = r.Date
		}
		s.TotalSales = s.TotalSales.Add(r.TotalSales)
		s.TotalProfit = s.TotalProfit.Add(r.TotalProfit)
	}
	s.Categories = len(categories)
	s.Regions = len(regions)

	if !s.TotalSales.IsZero() {
		s.MarginPercent = s.TotalProfit.Div(s.TotalSales).Mul(decimal.NewFromInt(100))
	}

	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err == nil && len(txs) > 0 {
		for i := range txs {
			sketch.Add(txs[i].Sales.InexactFloat64())
		}
		s.SalesP50, _ = sketch.GetValueAtQuantile(0.50)
		s.SalesP90, _ = sketch.GetValueAtQuantile(0.90)
		s.SalesP95, _ = sketch.GetValueAtQuantile(0.95)
		s.SalesP99, _ = sketch.GetValueAtQuantile(0.99)
	}

	return s
}

// RenderSummary writes the summary as plain text.
func RenderSummary(w io.Writer, s *Summary) {
	fmt.Fprintln(w, "== run summary ==")
	fmt.Fprintf(w, "transactions:    %d\n", s.Transactions)
	fmt.Fprintf(w, "aggregate rows:  %d\n", s.AggregateRows)
	fmt.Fprintf(w, "categories:      %d\n", s.Categories)
	fmt.Fprintf(w, "regions:         %d\n", s.Regions)
	if s.FirstDay != "" {
		fmt.Fprintf(w, "date range:      %s .. %s\n", s.FirstDay, s.LastDay)
	}
	fmt.Fprintf(w, "total sales:     %s\n", s.TotalSales.StringFixed(2))
	fmt.Fprintf(w, "total profit:    %s\n", s.TotalProfit.StringFixed(2))
	fmt.Fprintf(w, "overall margin:  %s%%\n", s.MarginPercent.StringFixed(2))
	if s.Transactions > 0 {
		fmt.Fprintf(w, "sale amount p50/p90/p95/p99: %.2f / %.2f / %.2f / %.2f\n",
			s.SalesP50, s.SalesP90, s.SalesP95, s.SalesP99)
	}
}

// SortRows orders rollup rows by (date, category, region) in place.
func SortRows(rows []types.AggregateRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Region < b.Region
	})
}
