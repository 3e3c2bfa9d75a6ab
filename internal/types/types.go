package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the fixed month/day/year pattern expected in raw records.
const DateLayout = "01/02/2006"

// DayLayout is the canonical calendar-day representation used as a grouping
// key and in the columnar output. ISO dates sort chronologically as strings.
const DayLayout = "2006-01-02"

// Transaction is a single normalized sales record.
type Transaction struct {
	// Identity
	OrderID string

	// Calendar date of the order. No time component is carried.
	OrderDate time.Time

	// Dimensions (open sets, matched by exact string equality)
	Category string
	Region   string

	// Measures
	Sales    decimal.Decimal // non-negative
	Profit   decimal.Decimal // may be negative
	Quantity int64           // positive
}

// Day returns the transaction's calendar day in DayLayout form.
func (t *Transaction) Day() string {
	return t.OrderDate.Format(DayLayout)
}

// GroupKey identifies one (day, category, region) aggregation bucket.
type GroupKey struct {
	Date     string
	Category string
	Region   string
}

// AggregateRow is one row of the daily rollup table: statistics for all
// transactions sharing a (day, category, region) key. Rows are built once per
// run and immutable afterwards. Field order here defines the column order of
// the serialized table.
type AggregateRow struct {
	Date     string
	Category string
	Region   string

	TotalSales  decimal.Decimal
	AvgSales    decimal.Decimal
	TotalProfit decimal.Decimal
	AvgProfit   decimal.Decimal

	TotalQuantity int64
	UniqueOrders  int64
}

// Key returns the row's grouping key.
func (r *AggregateRow) Key() GroupKey {
	return GroupKey{Date: r.Date, Category: r.Category, Region: r.Region}
}

// Equal reports whether two rows are field-for-field equal. Decimal measures
// are compared by value, not representation.
func (r *AggregateRow) Equal(other *AggregateRow) bool {
	return r.Date == other.Date &&
		r.Category == other.Category &&
		r.Region == other.Region &&
		r.TotalSales.Equal(other.TotalSales) &&
		r.AvgSales.Equal(other.AvgSales) &&
		r.TotalProfit.Equal(other.TotalProfit) &&
		r.AvgProfit.Equal(other.AvgProfit) &&
		r.TotalQuantity == other.TotalQuantity &&
		r.UniqueOrders == other.UniqueOrders
}

// Columns lists the aggregate table's column names in serialized order.
func Columns() []string {
	return []string{
		"date", "category", "region",
		"total_sales", "avg_sales",
		"total_profit", "avg_profit",
		"total_quantity", "unique_orders",
	}
}
