package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xelora/retailstream/internal/types"
)

func tx(orderID, day, category, region string, sales, profit string, quantity int64) types.Transaction {
	date, err := time.Parse(types.DayLayout, day)
	if err != nil {
		panic(err)
	}
	return types.Transaction{
		OrderID:   orderID,
		OrderDate: date,
		Category:  category,
		Region:    region,
		Sales:     decimal.RequireFromString(sales),
		Profit:    decimal.RequireFromString(profit),
		Quantity:  quantity,
	}
}

func TestDaily_SingleGroup(t *testing.T) {
	// Three same-day Technology/East transactions with distinct order ids.
	d := NewDaily()
	d.AddAll([]types.Transaction{
		tx("A", "2024-03-15", "Technology", "East", "100", "10", 1),
		tx("B", "2024-03-15", "Technology", "East", "200", "20", 2),
		tx("C", "2024-03-15", "Technology", "East", "300", "30", 3),
	})

	rows := d.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.Date != "2024-03-15" || r.Category != "Technology" || r.Region != "East" {
		t.Errorf("unexpected key: %+v", r.Key())
	}
	if !r.TotalSales.Equal(decimal.NewFromInt(600)) {
		t.Errorf("total_sales = %s, want 600", r.TotalSales)
	}
	if !r.AvgSales.Equal(decimal.NewFromInt(200)) {
		t.Errorf("avg_sales = %s, want 200", r.AvgSales)
	}
	if !r.TotalProfit.Equal(decimal.NewFromInt(60)) {
		t.Errorf("total_profit = %s, want 60", r.TotalProfit)
	}
	if !r.AvgProfit.Equal(decimal.NewFromInt(20)) {
		t.Errorf("avg_profit = %s, want 20", r.AvgProfit)
	}
	if r.TotalQuantity != 6 {
		t.Errorf("total_quantity = %d, want 6", r.TotalQuantity)
	}
	if r.UniqueOrders != 3 {
		t.Errorf("unique_orders = %d, want 3", r.UniqueOrders)
	}
}

func TestDaily_SingleTransactionGroup(t *testing.T) {
	d := NewDaily()
	d.Add(tx("A", "2024-03-15", "Furniture", "West", "123.45", "-7.50", 4))

	rows := d.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if !r.AvgSales.Equal(r.TotalSales) {
		t.Errorf("single-row group: avg_sales %s != total_sales %s", r.AvgSales, r.TotalSales)
	}
	if !r.AvgProfit.Equal(r.TotalProfit) {
		t.Errorf("single-row group: avg_profit %s != total_profit %s", r.AvgProfit, r.TotalProfit)
	}
	if r.UniqueOrders != 1 {
		t.Errorf("unique_orders = %d, want 1", r.UniqueOrders)
	}
}

func TestDaily_EmptyInput(t *testing.T) {
	d := NewDaily()
	rows := d.Rows()
	if len(rows) != 0 {
		t.Errorf("expected empty rollup, got %d rows", len(rows))
	}
}

func TestDaily_GroupingIsExact(t *testing.T) {
	// Different day, category casing and region each split the bucket.
	d := NewDaily()
	d.AddAll([]types.Transaction{
		tx("A", "2024-03-15", "Technology", "East", "100", "10", 1),
		tx("B", "2024-03-16", "Technology", "East", "100", "10", 1),
		tx("C", "2024-03-15", "technology", "East", "100", "10", 1),
		tx("D", "2024-03-15", "Technology", "West", "100", "10", 1),
	})

	if d.Len() != 4 {
		t.Errorf("expected 4 buckets, got %d", d.Len())
	}
}

func TestDaily_RepeatedOrderIDs(t *testing.T) {
	// Two line items of the same order: unique_orders < contributing rows.
	d := NewDaily()
	d.AddAll([]types.Transaction{
		tx("A", "2024-03-15", "Technology", "East", "100", "10", 1),
		tx("A", "2024-03-15", "Technology", "East", "50", "5", 1),
		tx("B", "2024-03-15", "Technology", "East", "25", "2", 1),
	})

	r := d.Rows()[0]
	if r.UniqueOrders != 2 {
		t.Errorf("unique_orders = %d, want 2", r.UniqueOrders)
	}
	// Mean still divides by the 3 contributing rows, not the 2 orders.
	want := decimal.RequireFromString("175").Div(decimal.NewFromInt(3))
	if !r.AvgSales.Equal(want) {
		t.Errorf("avg_sales = %s, want %s", r.AvgSales, want)
	}
}

func TestDaily_MeanDenominatorIsRowCount(t *testing.T) {
	// quantity sum (10) differs from row count (2); the mean must use rows.
	d := NewDaily()
	d.AddAll([]types.Transaction{
		tx("A", "2024-03-15", "Technology", "East", "100", "10", 7),
		tx("B", "2024-03-15", "Technology", "East", "300", "30", 3),
	})

	r := d.Rows()[0]
	if !r.AvgSales.Equal(decimal.NewFromInt(200)) {
		t.Errorf("avg_sales = %s, want 200 (sum/rows, not sum/quantity)", r.AvgSales)
	}
}

func TestDaily_ConservationOfTotals(t *testing.T) {
	txs := []types.Transaction{
		tx("A", "2024-03-15", "Technology", "East", "10.10", "1.01", 1),
		tx("B", "2024-03-15", "Furniture", "East", "20.20", "-2.02", 2),
		tx("C", "2024-03-16", "Technology", "West", "30.30", "3.03", 3),
		tx("D", "2024-03-16", "Technology", "West", "40.40", "4.04", 4),
		tx("E", "2024-03-17", "Office Supplies", "Central", "50.50", "-5.05", 5),
	}

	var wantSales, wantProfit decimal.Decimal
	var wantQuantity int64
	for i := range txs {
		wantSales = wantSales.Add(txs[i].Sales)
		wantProfit = wantProfit.Add(txs[i].Profit)
		wantQuantity += txs[i].Quantity
	}

	d := NewDaily()
	d.AddAll(txs)

	var gotSales, gotProfit decimal.Decimal
	var gotQuantity int64
	for _, r := range d.Rows() {
		gotSales = gotSales.Add(r.TotalSales)
		gotProfit = gotProfit.Add(r.TotalProfit)
		gotQuantity += r.TotalQuantity

		if r.UniqueOrders > r.TotalQuantity && r.UniqueOrders > int64(len(txs)) {
			t.Errorf("unique_orders out of range: %+v", r)
		}
	}

	if !gotSales.Equal(wantSales) {
		t.Errorf("sales not conserved: %s != %s", gotSales, wantSales)
	}
	if !gotProfit.Equal(wantProfit) {
		t.Errorf("profit not conserved: %s != %s", gotProfit, wantProfit)
	}
	if gotQuantity != wantQuantity {
		t.Errorf("quantity not conserved: %d != %d", gotQuantity, wantQuantity)
	}
}
