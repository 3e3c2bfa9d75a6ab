// Package query executes the fixed analytical catalog, and ad-hoc SQL, over
// the stored aggregate table. It uses DuckDB to query the Parquet file the
// pipeline wrote.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xelora/retailstream/internal/config"
	apperrors "github.com/xelora/retailstream/internal/errors"
)

// Service provides query capabilities over the stored aggregate table.
type Service struct {
	config *config.Config
	db     *sql.DB
	source string

	stats Stats
}

// Stats holds query statistics.
type Stats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// ResultSet is an ordered sequence of named-column rows.
type ResultSet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows in the result set.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// Column returns the index of a named column, or -1.
func (rs *ResultSet) Column(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// New creates a query service over the aggregate table at parquetPath.
func New(cfg *config.Config, parquetPath string) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Open in-memory DuckDB database
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if cfg.Query.MemoryLimit != "" {
		_, err = db.Exec(fmt.Sprintf("SET memory_limit='%s'", cfg.Query.MemoryLimit))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	return &Service{
		config: cfg,
		db:     db,
		source: parquetPath,
	}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Execute runs one declarative query spec and returns its ordered result set.
// An empty table yields an empty result set, not an error.
func (s *Service) Execute(ctx context.Context, spec Spec) (*ResultSet, error) {
	if err := spec.Validate(); err != nil {
		s.stats.Errors++
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Query.Timeout.Duration())
	defer cancel()

	rows, err := s.db.QueryContext(ctx, spec.buildSQL(), s.source)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query %s: %v: %w", spec.Name, err, apperrors.ErrQueryFailed)
	}
	defer rows.Close()

	rs, err := s.scan(rows, spec.Name, spec.Limit)
	if err != nil {
		s.stats.Errors++
		return nil, err
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(rs.Len())

	return rs, nil
}

// ExecuteCatalog runs every catalog query in order.
func (s *Service) ExecuteCatalog(ctx context.Context) ([]*ResultSet, error) {
	specs := Catalog()
	results := make([]*ResultSet, 0, len(specs))

	for _, spec := range specs {
		rs, err := s.Execute(ctx, spec)
		if err != nil {
			return nil, err
		}
		results = append(results, rs)
	}

	return results, nil
}

// RegisterView exposes the aggregate table under a view name for ad-hoc SQL.
func (s *Service) RegisterView(ctx context.Context, name string) error {
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return apperrors.Wrapf(apperrors.ErrInvalidQuery, "invalid view name %q", name)
		}
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')",
		name, strings.ReplaceAll(s.source, "'", "''"))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("register view: %v: %w", err, apperrors.ErrQueryFailed)
	}
	return nil
}

// ExecuteSQL executes a raw ad-hoc SQL query. Result size is capped at the
// configured maximum. DuckDB rejects unknown columns and malformed shapes;
// those surface as query errors.
func (s *Service) ExecuteSQL(ctx context.Context, query string) (*ResultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Query.Timeout.Duration())
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrQueryFailed)
	}
	defer rows.Close()

	rs, err := s.scan(rows, "adhoc", s.config.Query.MaxRows)
	if err != nil {
		s.stats.Errors++
		return nil, err
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(rs.Len())

	return rs, nil
}

// scan reads up to limit rows into a ResultSet.
func (s *Service) scan(rows *sql.Rows, name string, limit int) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	rs := &ResultSet{
		Name:    name,
		Columns: columns,
		Rows:    [][]any{},
	}

	for rows.Next() {
		if limit > 0 && len(rs.Rows) >= limit {
			break
		}

		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrQueryFailed)
	}

	return rs, nil
}

// Stats returns query statistics.
func (s *Service) Stats() Stats {
	return s.stats
}
