// Package parquet persists the aggregate table as a compressed columnar file.
//
// The serialized column order follows the AggregateRow attribute order, and
// Writer/Reader form an exact round trip: compression is never lossy, and
// monetary measures survive the float64 column representation value-for-value
// at the precision the table carries. A truncated file, a mismatched schema
// or a decompression failure surfaces as a storage error, never as partial
// data.
package parquet
