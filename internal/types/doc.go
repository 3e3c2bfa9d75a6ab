// Package types defines the core data types flowing through the pipeline.
//
// Key types:
//   - Transaction: a normalized sales record
//   - AggregateRow: daily (day, category, region) rollup statistics
//   - GroupKey: the composite aggregation key
package types
