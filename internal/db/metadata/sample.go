package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/db/dberr"
	"github.com/rebeliceyang/lazydb/internal/db/dialect"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// DefaultSampleLimit is the number of rows read per sample
const DefaultSampleLimit = 100

// DefaultNullPlaceholder is shown for NULL cells
const DefaultNullPlaceholder = "NULL"

// SampleOptions tune a sample read
type SampleOptions struct {
	Limit           int
	NullPlaceholder string
	Timeout         time.Duration // zero means no timeout beyond ctx
}

func (o SampleOptions) withDefaults() SampleOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSampleLimit
	}
	if o.NullPlaceholder == "" {
		o.NullPlaceholder = DefaultNullPlaceholder
	}
	return o
}

// Sample reads at most opts.Limit rows of table, columns in declared order,
// and renders every cell to a string. On failure it returns a
// *dberr.QueryError and no result.
func Sample(ctx context.Context, pool *connection.Pool, table *models.TableDescriptor, opts SampleOptions) (*models.SampleResult, error) {
	opts = opts.withDefaults()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	query := pool.Dialect().SampleQuery(table.Schema, table.Name, table.ColumnNames(), opts.Limit)
	queryErr := func(err error) error {
		return &dberr.QueryError{Table: table.QualifiedName(), Query: query, Err: err}
	}

	start := time.Now()
	result := &models.SampleResult{
		Table:   table.QualifiedName(),
		Columns: table.ColumnNames(),
		Rows:    make([][]string, 0),
		Nulls:   make([][]bool, 0),
		Limit:   opts.Limit,
	}

	err := pool.Read(ctx, func(q dialect.Queryer) error {
		rows, err := q.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		names, err := rows.Columns()
		if err != nil {
			return err
		}
		if len(table.Columns) > 0 && len(names) != len(table.Columns) {
			return fmt.Errorf("expected %d columns, got %d", len(table.Columns), len(names))
		}
		if len(table.Columns) == 0 {
			result.Columns = names
		}

		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}

		for rows.Next() {
			if len(result.Rows) >= opts.Limit {
				break
			}
			if err := rows.Scan(dest...); err != nil {
				return fmt.Errorf("scan row %d: %w", len(result.Rows), err)
			}

			row := make([]string, len(values))
			nulls := make([]bool, len(values))
			for i, v := range values {
				col := models.ColumnDescriptor{Name: names[i]}
				if i < len(table.Columns) {
					col = table.Columns[i]
				}
				text, isNull := RenderValue(v, col)
				if isNull {
					text = opts.NullPlaceholder
				}
				row[i] = text
				nulls[i] = isNull
			}
			result.Rows = append(result.Rows, row)
			result.Nulls = append(result.Nulls, nulls)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, queryErr(err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Sampler binds a pool and options so samples can be requested by table alone
type Sampler struct {
	pool *connection.Pool
	opts SampleOptions
}

// NewSampler creates a Sampler
func NewSampler(pool *connection.Pool, opts SampleOptions) *Sampler {
	return &Sampler{pool: pool, opts: opts.withDefaults()}
}

// Limit returns the row limit of every sample
func (s *Sampler) Limit() int {
	return s.opts.Limit
}

// Sample reads a bounded sample of table
func (s *Sampler) Sample(ctx context.Context, table *models.TableDescriptor) (*models.SampleResult, error) {
	return Sample(ctx, s.pool, table, s.opts)
}
