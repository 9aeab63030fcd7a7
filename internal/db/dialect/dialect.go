// Package dialect holds the per-database differences the browser cares
// about: which driver to open, how to keep the connection read-only, how to
// list the catalog and how to write a bounded sample query.
package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Queryer is the read surface a dialect needs. *sql.Tx and *sql.DB satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CatalogColumn is one row of a catalog listing
type CatalogColumn struct {
	Schema  string
	Table   string
	Column  string
	Type    string
	Ordinal int
}

// Dialect describes one kind of data source
type Dialect interface {
	// Name is the canonical dialect name, e.g. "postgres"
	Name() string
	// DriverName is the database/sql driver to open
	DriverName() string
	// PrepareDSN rewrites the DSN so the driver opens the source read-only
	// where it can
	PrepareDSN(dsn string) string
	// ReadOnlyTx reports whether sql.TxOptions.ReadOnly is honored
	ReadOnlyTx() bool
	// Catalog lists every column of every user table, grouped by table and
	// ordered by declared position
	Catalog(ctx context.Context, q Queryer) ([]CatalogColumn, error)
	QuoteIdent(name string) string
	// SampleQuery returns a query reading at most limit rows of the given
	// columns, in that order
	SampleQuery(schema, table string, columns []string, limit int) string
	// DefaultSchema is the schema whose tables are shown unqualified
	DefaultSchema() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Dialect)
)

// Register makes a dialect available under its name.
// Called by dialect implementations in their init() functions.
func Register(d Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Name()] = d
}

// Lookup finds a dialect by name or alias
func Lookup(name string) (Dialect, error) {
	registryMu.RLock()
	d, ok := registry[Normalize(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: Registered()}
	}
	return d, nil
}

// Registered returns the registered dialect names (sorted)
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDialectError is returned when a dialect name is not registered
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown driver %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Normalize maps common aliases to canonical dialect names
func Normalize(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgresql", "pg", "postgres", "pgx":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite":
		return "sqlite"
	case "sqlite3":
		return "sqlite3"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "duckdb", "duck":
		return "duckdb"
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// Infer guesses the dialect name from a DSN.
// Examples:
//   - "postgres://app@db/shop" → "postgres"
//   - "app:pw@tcp(db:3306)/shop" → "mysql"
//   - "warehouse.duckdb" → "duckdb"
//   - "chinook.db" → "sqlite"
func Infer(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case isLibpqKeywords(lower):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"), strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql"
	case strings.HasPrefix(lower, "sqlserver://"), strings.HasPrefix(lower, "mssql://"):
		return "sqlserver"
	case strings.HasPrefix(lower, "duckdb://"):
		return "duckdb"
	}

	path := lower
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	if strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".ddb") {
		return "duckdb"
	}
	return "sqlite"
}

var libpqKeys = map[string]bool{
	"host": true, "hostaddr": true, "port": true, "dbname": true,
	"user": true, "password": true, "sslmode": true,
}

// isLibpqKeywords reports whether dsn is a space separated key=value list
// such as "dbname=shop host=db user=app" with at least one libpq key.
func isLibpqKeywords(dsn string) bool {
	fields := strings.Fields(dsn)
	if len(fields) == 0 {
		return false
	}
	known := false
	for _, f := range fields {
		key, _, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return false
		}
		if libpqKeys[key] {
			known = true
		}
	}
	return known
}

// scanCatalog reads CatalogColumn rows from a catalog query that selects
// schema, table, column, type and ordinal, in that order.
func scanCatalog(ctx context.Context, q Queryer, query string, args ...any) ([]CatalogColumn, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var cols []CatalogColumn
	for rows.Next() {
		var (
			c        CatalogColumn
			schema   sql.NullString
			dataType sql.NullString
		)
		if err := rows.Scan(&schema, &c.Table, &c.Column, &dataType, &c.Ordinal); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		c.Schema = schema.String
		c.Type = dataType.String
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return cols, nil
}

func quoteWith(open, end, name string) string {
	return open + strings.ReplaceAll(name, end, end+end) + end
}

func quoteDouble(name string) string   { return quoteWith(`"`, `"`, name) }
func quoteBacktick(name string) string { return quoteWith("`", "`", name) }
func quoteBracket(name string) string  { return quoteWith("[", "]", name) }

// qualified quotes schema and table and joins them; an empty schema is omitted
func qualified(quote func(string) string, schema, table string) string {
	if schema == "" {
		return quote(table)
	}
	return quote(schema) + "." + quote(table)
}

// columnList quotes columns for a select list, "*" when there are none
func columnList(quote func(string) string, columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

// limitQuery builds the common "SELECT ... LIMIT n" form
func limitQuery(quote func(string) string, schema, table string, columns []string, limit int) string {
	return "SELECT " + columnList(quote, columns) +
		" FROM " + qualified(quote, schema, table) +
		" LIMIT " + strconv.Itoa(limit)
}

// appendParam adds key=value to a DSN unless key is already present.
// sep is the separator used before the first parameter ("?" for URLs).
func appendParam(dsn, key, value, sep string) string {
	if strings.Contains(strings.ToLower(dsn), strings.ToLower(key)+"=") {
		return dsn
	}
	if strings.Contains(dsn, sep) {
		return dsn + "&" + key + "=" + value
	}
	return dsn + sep + key + "=" + value
}
