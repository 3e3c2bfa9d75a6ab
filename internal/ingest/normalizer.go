// Package ingest reads raw transaction rows and normalizes them into typed
// Transaction values. Normalization is strict: a malformed date or numeric
// field aborts the run, it is never skipped per-row.
package ingest

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xelora/retailstream/internal/errors"
	"github.com/xelora/retailstream/internal/types"
)

// ParseRecords normalizes raw records into transactions.
// The returned slice preserves input order and has one entry per record.
func ParseRecords(records []RawRecord) ([]types.Transaction, error) {
	txs := make([]types.Transaction, 0, len(records))

	for i := range records {
		tx, err := parseRecord(&records[i])
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func parseRecord(r *RawRecord) (types.Transaction, error) {
	var tx types.Transaction

	orderID := r.Fields["Order ID"]
	if orderID == "" {
		return tx, apperrors.NewRowError(r.Line, "Order ID", apperrors.ErrEmptyField)
	}

	date, err := time.Parse(types.DateLayout, r.Fields["Order Date"])
	if err != nil {
		return tx, apperrors.NewMalformedDate(r.Line, r.Fields["Order Date"])
	}

	category := r.Fields["Category"]
	if category == "" {
		return tx, apperrors.NewRowError(r.Line, "Category", apperrors.ErrEmptyField)
	}
	region := r.Fields["Region"]
	if region == "" {
		return tx, apperrors.NewRowError(r.Line, "Region", apperrors.ErrEmptyField)
	}

	sales, err := decimal.NewFromString(r.Fields["Sales"])
	if err != nil {
		return tx, apperrors.NewRowError(r.Line, "Sales", apperrors.ErrMalformedNumber)
	}
	if sales.IsNegative() {
		return tx, apperrors.NewRowError(r.Line, "Sales", apperrors.ErrMalformedNumber)
	}

	profit, err := decimal.NewFromString(r.Fields["Profit"])
	if err != nil {
		return tx, apperrors.NewRowError(r.Line, "Profit", apperrors.ErrMalformedNumber)
	}

	quantity, err := strconv.ParseInt(r.Fields["Quantity"], 10, 64)
	if err != nil {
		return tx, apperrors.NewRowError(r.Line, "Quantity", apperrors.ErrMalformedNumber)
	}
	if quantity <= 0 {
		return tx, apperrors.NewRowError(r.Line, "Quantity", apperrors.ErrInvalidQuantity)
	}

	tx = types.Transaction{
		OrderID:   orderID,
		OrderDate: date,
		Category:  category,
		Region:    region,
		Sales:     sales,
		Profit:    profit,
		Quantity:  quantity,
	}
	return tx, nil
}
