package models

import (
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// ColumnKind classifies a column's declared type so every cell of that
// column goes through the same rendering path.
type ColumnKind int

const (
	KindOther ColumnKind = iota
	KindText
	KindInteger
	KindFloat
	KindBoolean
	KindTemporal
	KindBinary
	KindJSON
)

func (k ColumnKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	case KindBinary:
		return "binary"
	case KindJSON:
		return "json"
	default:
		return "other"
	}
}

// Numeric reports whether values of this kind are right-aligned in tables
func (k ColumnKind) Numeric() bool {
	return k == KindInteger || k == KindFloat
}

// ClassifyType maps a declared SQL type (as reported by the catalog) to a ColumnKind.
// Examples:
//   - "INTEGER" → KindInteger
//   - "character varying(40)" → KindText
//   - "timestamp with time zone" → KindTemporal
func ClassifyType(declared string) ColumnKind {
	t := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimSuffix(t, " unsigned")

	has := func(parts ...string) bool {
		for _, p := range parts {
			if strings.Contains(t, p) {
				return true
			}
		}
		return false
	}

	switch {
	case t == "":
		return KindOther
	case has("json"):
		return KindJSON
	case has("date", "time", "interval") || t == "year":
		return KindTemporal
	case strings.HasPrefix(t, "bool") || t == "bit":
		return KindBoolean
	case isIntegerType(t) || strings.HasSuffix(t, "serial"):
		return KindInteger
	case has("float", "double", "real", "numeric", "decimal", "money", "number"):
		return KindFloat
	case has("blob", "bytea", "binary", "image"):
		return KindBinary
	case has("char", "text", "clob", "string", "uuid", "enum", "xml") || t == "name":
		return KindText
	default:
		return KindOther
	}
}

var integerWords = map[string]bool{
	"int": true, "integer": true, "bigint": true, "smallint": true,
	"tinyint": true, "mediumint": true, "hugeint": true,
	"uint": true, "uinteger": true, "ubigint": true, "usmallint": true,
	"utinyint": true, "uhugeint": true,
}

// isIntegerType matches the int family word by word, so "point" or
// "interval" never count. Size suffixes such as int8 or uint32 are ignored.
func isIntegerType(t string) bool {
	for _, word := range strings.Fields(t) {
		if integerWords[strings.TrimRight(word, "0123456789")] {
			return true
		}
	}
	return false
}

// ColumnDescriptor describes one reflected column. Immutable once reflected.
type ColumnDescriptor struct {
	Name     string
	Type     string // declared type, as reported by the catalog
	Position int    // 0-based declared order
	Kind     ColumnKind
}

// NewColumnDescriptor creates a column descriptor and classifies its type
func NewColumnDescriptor(name, declared string, position int) ColumnDescriptor {
	return ColumnDescriptor{
		Name:     name,
		Type:     declared,
		Position: position,
		Kind:     ClassifyType(declared),
	}
}

// TableDescriptor describes one reflected table and its columns in declared order.
type TableDescriptor struct {
	Schema      string
	Name        string
	Columns     []ColumnDescriptor
	Description string // display label
}

// QualifiedName returns "schema.name", or just the name when there is no schema.
// It is the table's key inside a SchemaSnapshot.
func (t *TableDescriptor) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ColumnNames returns the column names in declared order
func (t *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SchemaSnapshot is a point-in-time capture of the tables in a data source,
// kept in reflection order. Built once per session and read-only afterwards.
type SchemaSnapshot struct {
	Source string // human readable data source label, used for the tree root
	tables *orderedmap.OrderedMap[string, *TableDescriptor]
}

// NewSchemaSnapshot creates an empty snapshot
func NewSchemaSnapshot(source string) *SchemaSnapshot {
	return &SchemaSnapshot{
		Source: source,
		tables: orderedmap.NewOrderedMap[string, *TableDescriptor](),
	}
}

// Add appends a table. Re-adding a qualified name replaces the descriptor
// but keeps its original position.
func (s *SchemaSnapshot) Add(table *TableDescriptor) {
	s.tables.Set(table.QualifiedName(), table)
}

// Get looks a table up by qualified name
func (s *SchemaSnapshot) Get(name string) (*TableDescriptor, bool) {
	return s.tables.Get(name)
}

// Len returns the number of tables
func (s *SchemaSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.tables.Len()
}

// Tables returns the tables in reflection order
func (s *SchemaSnapshot) Tables() []*TableDescriptor {
	tables := make([]*TableDescriptor, 0, s.tables.Len())
	for el := s.tables.Front(); el != nil; el = el.Next() {
		tables = append(tables, el.Value)
	}
	return tables
}

// Names returns the qualified table names in reflection order
func (s *SchemaSnapshot) Names() []string {
	names := make([]string, 0, s.tables.Len())
	for el := s.tables.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// SampleResult is a bounded read of one table, rendered to strings.
// It is replaced wholesale on every successful sample.
type SampleResult struct {
	Table    string
	Columns  []string
	Rows     [][]string
	Nulls    [][]bool // Nulls[i][j] is true when Rows[i][j] is the null placeholder
	Limit    int
	Duration time.Duration
}

// RowCount returns the number of sampled rows
func (r *SampleResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// IsNull reports whether the given cell was NULL in the data source
func (r *SampleResult) IsNull(row, col int) bool {
	if r == nil || row < 0 || row >= len(r.Nulls) {
		return false
	}
	if col < 0 || col >= len(r.Nulls[row]) {
		return false
	}
	return r.Nulls[row][col]
}
