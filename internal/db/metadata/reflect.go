package metadata

import (
	"context"
	"fmt"

	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/db/dberr"
	"github.com/rebeliceyang/lazydb/internal/db/dialect"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// Reflect reads the catalog once and returns the snapshot of all user tables
// with their columns in declared order. Every failure is a
// *dberr.ReflectionError; no partial snapshot is returned.
func Reflect(ctx context.Context, pool *connection.Pool) (*models.SchemaSnapshot, error) {
	d := pool.Dialect()

	var cols []dialect.CatalogColumn
	err := pool.Read(ctx, func(q dialect.Queryer) error {
		var err error
		cols, err = d.Catalog(ctx, q)
		return err
	})
	if err != nil {
		return nil, &dberr.ReflectionError{Op: d.Name() + " catalog", Err: err}
	}

	return BuildSnapshot(pool.Label(), d.DefaultSchema(), cols)
}

// BuildSnapshot groups catalog rows into table descriptors. Rows of one table
// must be contiguous. Positions are assigned from row order, starting at 0.
// Tables outside defaultSchema are labelled "schema.table".
func BuildSnapshot(source, defaultSchema string, cols []dialect.CatalogColumn) (*models.SchemaSnapshot, error) {
	snapshot := models.NewSchemaSnapshot(source)

	var current *models.TableDescriptor
	for i, c := range cols {
		if c.Table == "" || c.Column == "" {
			return nil, &dberr.ReflectionError{
				Op:  "build snapshot",
				Err: fmt.Errorf("catalog row %d has an empty table or column name", i),
			}
		}

		if current == nil || current.Schema != c.Schema || current.Name != c.Table {
			current = &models.TableDescriptor{
				Schema:      c.Schema,
				Name:        c.Table,
				Description: describe(c.Schema, c.Table, defaultSchema),
			}
			if _, seen := snapshot.Get(current.QualifiedName()); seen {
				return nil, &dberr.ReflectionError{
					Op:  "build snapshot",
					Err: fmt.Errorf("columns of table %s are not contiguous", current.QualifiedName()),
				}
			}
			snapshot.Add(current)
		}

		current.Columns = append(current.Columns,
			models.NewColumnDescriptor(c.Column, c.Type, len(current.Columns)))
	}

	return snapshot, nil
}

func describe(schema, table, defaultSchema string) string {
	if schema == "" || schema == defaultSchema {
		return table
	}
	return schema + "." + table
}
