package dialect

import (
	"context"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func init() {
	Register(postgresDialect{})
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }
func (postgresDialect) ReadOnlyTx() bool   { return true }

func (postgresDialect) DefaultSchema() string { return "public" }

// PrepareDSN makes every session read-only at the server as well. pgx
// forwards unknown parameters as runtime settings.
func (postgresDialect) PrepareDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return appendParam(dsn, "default_transaction_read_only", "on", "?")
	}
	if strings.Contains(dsn, "default_transaction_read_only") {
		return dsn
	}
	return strings.TrimSpace(dsn + " default_transaction_read_only=on")
}

func (postgresDialect) Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error) {
	const query = `
		SELECT c.table_schema::text,
		       c.table_name::text,
		       c.column_name::text,
		       COALESCE(NULLIF(c.data_type, 'USER-DEFINED'), c.udt_name)::text,
		       c.ordinal_position::int
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE t.table_type = 'BASE TABLE'
		  AND c.table_schema NOT IN ('pg_catalog', 'information_schema')
		  AND c.table_schema NOT LIKE 'pg_toast%'
		ORDER BY CASE WHEN c.table_schema = current_schema() THEN 0 ELSE 1 END,
		         c.table_schema, c.table_name, c.ordinal_position`
	return scanCatalog(ctx, q, query)
}

func (postgresDialect) QuoteIdent(name string) string { return quoteDouble(name) }

func (d postgresDialect) SampleQuery(schema, table string, columns []string, limit int) string {
	return limitQuery(d.QuoteIdent, schema, table, columns, limit)
}
