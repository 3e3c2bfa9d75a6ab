package query

import (
	"fmt"
	"strings"

	apperrors "github.com/xelora/retailstream/internal/errors"
)

// Table columns by name, with the numeric ones that may be aggregated.
var (
	tableColumns = map[string]bool{
		"date": true, "category": true, "region": true,
		"total_sales": true, "avg_sales": true,
		"total_profit": true, "avg_profit": true,
		"total_quantity": true, "unique_orders": true,
	}

	// Integer columns whose SUM must be cast back down: DuckDB widens
	// SUM(BIGINT) to HUGEINT, which database/sql cannot scan.
	integerColumns = map[string]bool{
		"total_quantity": true, "unique_orders": true,
	}
)

// AggregateFunc is an aggregation function applied per group.
type AggregateFunc string

const (
	FuncSum   AggregateFunc = "sum"
	FuncCount AggregateFunc = "count"
)

// Aggregate is one aggregated output column.
type Aggregate struct {
	Func   AggregateFunc
	Column string // source column; empty for FuncCount
	As     string // output alias
}

// Ratio is a derived column dividing one aggregate alias by another, scaled.
// It evaluates to 0 when the denominator is 0 rather than faulting.
type Ratio struct {
	As          string
	Numerator   string // aggregate alias
	Denominator string // aggregate alias
	Scale       float64
}

// Filter keeps only groups whose aggregate alias exceeds a bound
// (a having-clause equivalent).
type Filter struct {
	Column      string // aggregate alias
	GreaterThan float64
}

// Spec is a declarative analytical query over the aggregate table:
// group-by key, aggregates, optional derived ratio, optional group filter,
// order and limit.
type Spec struct {
	Name       string
	GroupBy    string
	Aggregates []Aggregate
	Ratio      *Ratio
	Having     *Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Catalog returns the fixed analytical query catalog.
func Catalog() []Spec {
	return []Spec{
		TopCategories(),
		DailyTrend(),
		TopRegionsByMargin(),
	}
}

// TopCategories ranks categories by revenue.
func TopCategories() Spec {
	return Spec{
		Name:    "top_categories_by_revenue",
		GroupBy: "category",
		Aggregates: []Aggregate{
			{Func: FuncSum, Column: "total_sales", As: "revenue"},
			{Func: FuncSum, Column: "total_profit", As: "profit"},
		},
		Ratio:      &Ratio{As: "margin_percent", Numerator: "profit", Denominator: "revenue", Scale: 100},
		OrderBy:    "revenue",
		Descending: true,
		Limit:      5,
	}
}

// DailyTrend reports revenue, items and record counts for the most recent days.
func DailyTrend() Spec {
	return Spec{
		Name:    "daily_trend",
		GroupBy: "date",
		Aggregates: []Aggregate{
			{Func: FuncSum, Column: "total_sales", As: "daily_revenue"},
			{Func: FuncSum, Column: "total_quantity", As: "daily_items"},
			{Func: FuncCount, As: "records_count"},
		},
		OrderBy:    "date",
		Descending: true,
		Limit:      7,
	}
}

// TopRegionsByMargin ranks revenue-positive regions by margin.
func TopRegionsByMargin() Spec {
	return Spec{
		Name:    "top_regions_by_margin",
		GroupBy: "region",
		Aggregates: []Aggregate{
			{Func: FuncSum, Column: "total_sales", As: "revenue"},
			{Func: FuncSum, Column: "total_profit", As: "profit"},
		},
		Ratio:      &Ratio{As: "margin_percent", Numerator: "profit", Denominator: "revenue", Scale: 100},
		Having:     &Filter{Column: "revenue", GreaterThan: 0},
		OrderBy:    "margin_percent",
		Descending: true,
		Limit:      3,
	}
}

// Validate checks the spec against the table schema. Unknown grouping,
// aggregation or ordering keys are rejected explicitly.
func (s *Spec) Validate() error {
	if s.GroupBy == "" {
		return apperrors.Wrap(apperrors.ErrInvalidQuery, "group-by key required")
	}
	if !tableColumns[s.GroupBy] {
		return apperrors.NewUnknownColumn(s.GroupBy)
	}
	if len(s.Aggregates) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidQuery, "at least one aggregate required")
	}

	aliases := map[string]bool{s.GroupBy: true}
	for i := range s.Aggregates {
		a := &s.Aggregates[i]
		switch a.Func {
		case FuncSum:
			if !tableColumns[a.Column] {
				return apperrors.NewUnknownColumn(a.Column)
			}
		case FuncCount:
			if a.Column != "" {
				return apperrors.Wrap(apperrors.ErrInvalidQuery, "count takes no column")
			}
		default:
			return apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown aggregate function %q", a.Func)
		}
		if a.As == "" {
			return apperrors.Wrap(apperrors.ErrInvalidQuery, "aggregate alias required")
		}
		if aliases[a.As] {
			return apperrors.Wrapf(apperrors.ErrInvalidQuery, "duplicate alias %q", a.As)
		}
		aliases[a.As] = true
	}

	if s.Ratio != nil {
		if !aliases[s.Ratio.Numerator] {
			return apperrors.NewUnknownColumn(s.Ratio.Numerator)
		}
		if !aliases[s.Ratio.Denominator] {
			return apperrors.NewUnknownColumn(s.Ratio.Denominator)
		}
		if s.Ratio.As == "" || aliases[s.Ratio.As] {
			return apperrors.Wrap(apperrors.ErrInvalidQuery, "ratio alias must be new and non-empty")
		}
		aliases[s.Ratio.As] = true
	}

	if s.Having != nil && !aliases[s.Having.Column] {
		return apperrors.NewUnknownColumn(s.Having.Column)
	}

	if s.OrderBy == "" {
		return apperrors.Wrap(apperrors.ErrInvalidQuery, "order key required")
	}
	if !aliases[s.OrderBy] {
		return apperrors.NewUnknownColumn(s.OrderBy)
	}

	if s.Limit <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidQuery, "limit must be positive")
	}

	return nil
}

// Columns returns the output column names in SELECT order.
func (s *Spec) Columns() []string {
	cols := []string{s.GroupBy}
	for i := range s.Aggregates {
		cols = append(cols, s.Aggregates[i].As)
	}
	if s.Ratio != nil {
		cols = append(cols, s.Ratio.As)
	}
	return cols
}

// exprFor returns the SQL expression behind an aggregate alias.
func (s *Spec) exprFor(alias string) string {
	for i := range s.Aggregates {
		a := &s.Aggregates[i]
		if a.As != alias {
			continue
		}
		switch a.Func {
		case FuncCount:
			return "COUNT(*)"
		default:
			if integerColumns[a.Column] {
				return fmt.Sprintf("CAST(SUM(%s) AS BIGINT)", a.Column)
			}
			return fmt.Sprintf("SUM(%s)", a.Column)
		}
	}
	return ""
}

// buildSQL compiles the spec into a DuckDB query over the Parquet source.
// The source path is bound as a parameter, not interpolated.
//
// Values are kept at full precision here; rounding belongs to presentation.
// Ordering always carries the group key as a secondary ascending sort so ties
// resolve identically across runs.
func (s *Spec) buildSQL() string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(s.GroupBy)
	for i := range s.Aggregates {
		a := &s.Aggregates[i]
		fmt.Fprintf(&sb, ", %s AS %s", s.exprFor(a.As), a.As)
	}
	if r := s.Ratio; r != nil {
		num, den := s.exprFor(r.Numerator), s.exprFor(r.Denominator)
		fmt.Fprintf(&sb, ", CASE WHEN %s = 0 THEN 0 ELSE %s / %s * %g END AS %s",
			den, num, den, r.Scale, r.As)
	}

	sb.WriteString(" FROM read_parquet($1)")
	fmt.Fprintf(&sb, " GROUP BY %s", s.GroupBy)

	if h := s.Having; h != nil {
		fmt.Fprintf(&sb, " HAVING %s > %g", s.exprFor(h.Column), h.GreaterThan)
	}

	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", s.OrderBy, dir)
	if s.OrderBy != s.GroupBy {
		fmt.Fprintf(&sb, ", %s ASC", s.GroupBy)
	}

	fmt.Fprintf(&sb, " LIMIT %d", s.Limit)

	return sb.String()
}
