// Package aggregate computes the daily (day, category, region) rollup.
//
// The rollup is a single pass over the normalized transactions. Grouping key
// equality is exact string and date equality. Sums use decimal arithmetic so
// monetary totals stay exact; means divide by the number of contributing
// transactions for the key, never by the distinct order count or the quantity
// sum.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xelora/retailstream/internal/types"
)

// group accumulates running statistics for one (day, category, region) key.
type group struct {
	key types.GroupKey

	totalSales  decimal.Decimal
	totalProfit decimal.Decimal
	quantity    int64

	// rows is the number of contributing transactions, the denominator for
	// both means.
	rows int64

	orders map[string]struct{}
}

func newGroup(key types.GroupKey) *group {
	return &group{
		key:    key,
		orders: make(map[string]struct{}),
	}
}

func (g *group) add(tx *types.Transaction) {
	g.totalSales = g.totalSales.Add(tx.Sales)
	g.totalProfit = g.totalProfit.Add(tx.Profit)
	g.quantity += tx.Quantity
	g.rows++
	g.orders[tx.OrderID] = struct{}{}
}

func (g *group) row() types.AggregateRow {
	rows := decimal.NewFromInt(g.rows)
	return types.AggregateRow{
		Date:          g.key.Date,
		Category:      g.key.Category,
		Region:        g.key.Region,
		TotalSales:    g.totalSales,
		AvgSales:      g.totalSales.Div(rows),
		TotalProfit:   g.totalProfit,
		AvgProfit:     g.totalProfit.Div(rows),
		TotalQuantity: g.quantity,
		UniqueOrders:  int64(len(g.orders)),
	}
}

// Daily groups transactions into one-day tumbling windows per category and
// region. It owns the AggregateRow set it produces.
type Daily struct {
	groups map[types.GroupKey]*group
}

// NewDaily creates an empty daily aggregator.
func NewDaily() *Daily {
	return &Daily{groups: make(map[types.GroupKey]*group)}
}

// Add folds one transaction into its bucket.
func (d *Daily) Add(tx types.Transaction) {
	key := types.GroupKey{Date: tx.Day(), Category: tx.Category, Region: tx.Region}
	g := d.groups[key]
	if g == nil {
		g = newGroup(key)
		d.groups[key] = g
	}
	g.add(&tx)
}

// AddAll folds a transaction slice into the rollup.
func (d *Daily) AddAll(txs []types.Transaction) {
	for i := range txs {
		d.Add(txs[i])
	}
}

// Len returns the number of distinct (day, category, region) buckets.
func (d *Daily) Len() int {
	return len(d.groups)
}

// Rows materializes the rollup. Iteration order is unspecified; consumers
// that need an order must sort. Zero input yields an empty slice, not nil
// behaviorally distinct output.
func (d *Daily) Rows() []types.AggregateRow {
	rows := make([]types.AggregateRow, 0, len(d.groups))
	for _, g := range d.groups {
		rows = append(rows, g.row())
	}
	return rows
}
