package dialect

import (
	"context"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

func init() {
	Register(duckdbDialect{})
}

type duckdbDialect struct{}

func (duckdbDialect) Name() string       { return "duckdb" }
func (duckdbDialect) DriverName() string { return "duckdb" }
func (duckdbDialect) ReadOnlyTx() bool   { return false }

func (duckdbDialect) DefaultSchema() string { return "main" }

// PrepareDSN opens database files with access_mode=READ_ONLY. An in-memory
// database cannot be opened read-only and is left alone.
func (duckdbDialect) PrepareDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "duckdb://")
	if dsn == "" || dsn == ":memory:" {
		return dsn
	}
	return appendParam(dsn, "access_mode", "READ_ONLY", "?")
}

func (duckdbDialect) Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error) {
	const query = `
		SELECT c.table_schema, c.table_name, c.column_name, c.data_type, CAST(c.ordinal_position AS INTEGER)
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_catalog = c.table_catalog
		 AND t.table_schema = c.table_schema
		 AND t.table_name = c.table_name
		WHERE t.table_type = 'BASE TABLE'
		  AND c.table_catalog = current_database()
		  AND c.table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY CASE WHEN c.table_schema = 'main' THEN 0 ELSE 1 END,
		         c.table_schema, c.table_name, c.ordinal_position`
	return scanCatalog(ctx, q, query)
}

func (duckdbDialect) QuoteIdent(name string) string { return quoteDouble(name) }

func (d duckdbDialect) SampleQuery(schema, table string, columns []string, limit int) string {
	return limitQuery(d.QuoteIdent, schema, table, columns, limit)
}
