package dialect

import (
	"context"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

func init() {
	Register(mysqlDialect{})
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }
func (mysqlDialect) ReadOnlyTx() bool   { return true }

// DefaultSchema is empty: the catalog only lists the connected database
func (mysqlDialect) DefaultSchema() string { return "" }

// PrepareDSN accepts the "mysql://" form some tools print, which the driver
// does not parse.
func (mysqlDialect) PrepareDSN(dsn string) string {
	return strings.TrimPrefix(dsn, "mysql://")
}

func (mysqlDialect) Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error) {
	const query = `
		SELECT '', c.table_name, c.column_name, c.column_type, c.ordinal_position
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = DATABASE()
		  AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position`
	return scanCatalog(ctx, q, query)
}

func (mysqlDialect) QuoteIdent(name string) string { return quoteBacktick(name) }

func (d mysqlDialect) SampleQuery(schema, table string, columns []string, limit int) string {
	return limitQuery(d.QuoteIdent, schema, table, columns, limit)
}
