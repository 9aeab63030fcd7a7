package dialect

import (
	"context"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

func init() {
	// pure Go driver by default, the cgo one on request
	Register(sqliteDialect{name: "sqlite", driver: "sqlite"})
	Register(sqliteDialect{name: "sqlite3", driver: "sqlite3"})
}

type sqliteDialect struct {
	name   string
	driver string
}

func (d sqliteDialect) Name() string       { return d.name }
func (d sqliteDialect) DriverName() string { return d.driver }

// ReadOnlyTx is false: neither driver honors the option, the DSN does the work
func (sqliteDialect) ReadOnlyTx() bool { return false }

func (sqliteDialect) DefaultSchema() string { return "" }

// PrepareDSN opens the database file with mode=ro. A missing file then fails
// to open instead of being created empty.
func (sqliteDialect) PrepareDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" || dsn == ":memory:" {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return appendParam(dsn, "mode", "ro", "?")
}

func (sqliteDialect) Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error) {
	const query = `
		SELECT '', m.name, p.name, p.type, p.cid
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table'
		  AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name, p.cid`
	return scanCatalog(ctx, q, query)
}

func (sqliteDialect) QuoteIdent(name string) string { return quoteDouble(name) }

func (d sqliteDialect) SampleQuery(schema, table string, columns []string, limit int) string {
	return limitQuery(d.QuoteIdent, schema, table, columns, limit)
}
