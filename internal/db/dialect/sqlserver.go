package dialect

import (
	"context"
	"strconv"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
)

func init() {
	Register(sqlserverDialect{})
}

type sqlserverDialect struct{}

func (sqlserverDialect) Name() string       { return "sqlserver" }
func (sqlserverDialect) DriverName() string { return "sqlserver" }

// ReadOnlyTx is false: the driver rejects read-only transactions
func (sqlserverDialect) ReadOnlyTx() bool { return false }

func (sqlserverDialect) DefaultSchema() string { return "dbo" }

func (sqlserverDialect) PrepareDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return appendParam(dsn, "ApplicationIntent", "ReadOnly", "?")
	}
	if strings.Contains(strings.ToLower(dsn), "applicationintent=") {
		return dsn
	}
	return strings.TrimSuffix(dsn, ";") + ";ApplicationIntent=ReadOnly"
}

func (sqlserverDialect) Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error) {
	const query = `
		SELECT c.TABLE_SCHEMA, c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.ORDINAL_POSITION
		FROM INFORMATION_SCHEMA.COLUMNS c
		JOIN INFORMATION_SCHEMA.TABLES t
		  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
		WHERE t.TABLE_TYPE = 'BASE TABLE'
		ORDER BY CASE WHEN c.TABLE_SCHEMA = SCHEMA_NAME() THEN 0 ELSE 1 END,
		         c.TABLE_SCHEMA, c.TABLE_NAME, c.ORDINAL_POSITION`
	return scanCatalog(ctx, q, query)
}

func (sqlserverDialect) QuoteIdent(name string) string { return quoteBracket(name) }

func (d sqlserverDialect) SampleQuery(schema, table string, columns []string, limit int) string {
	return "SELECT TOP (" + strconv.Itoa(limit) + ") " + columnList(d.QuoteIdent, columns) +
		" FROM " + qualified(d.QuoteIdent, schema, table)
}
