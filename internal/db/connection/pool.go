package connection

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rebeliceyang/lazydb/internal/db/dberr"
	"github.com/rebeliceyang/lazydb/internal/db/dialect"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// DefaultConnectTimeout bounds the initial ping
const DefaultConnectTimeout = 10 * time.Second

// Pool is the single read-only handle of a session. It has no way to execute
// statements: every read goes through Read, inside a transaction that is
// always rolled back.
type Pool struct {
	db      *sql.DB
	dialect dialect.Dialect
	config  models.ConnectionConfig
}

// Open resolves the dialect, opens the data source read-only and pings it.
// Every failure is a *dberr.ConnectionError.
func Open(ctx context.Context, config models.ConnectionConfig) (*Pool, error) {
	if config.DSN == "" {
		return nil, &dberr.ConnectionError{Driver: config.Driver, Err: fmt.Errorf("no data source given")}
	}

	name := config.Driver
	if name == "" {
		name = dialect.Infer(config.DSN)
	}
	d, err := dialect.Lookup(name)
	if err != nil {
		return nil, &dberr.ConnectionError{Driver: name, Target: models.RedactDSN(config.DSN), Err: err}
	}
	config.Driver = d.Name()

	connErr := func(err error) error {
		return &dberr.ConnectionError{Driver: d.Name(), Target: models.RedactDSN(config.DSN), Err: err}
	}

	db, err := sql.Open(d.DriverName(), d.PrepareDSN(config.DSN))
	if err != nil {
		return nil, connErr(err)
	}

	// One connection serves reflection and every sample
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(30 * time.Minute)

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool := NewPool(db, d, config)
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, connErr(err)
	}
	return pool, nil
}

// NewPool wraps an already opened handle
func NewPool(db *sql.DB, d dialect.Dialect, config models.ConnectionConfig) *Pool {
	if config.Driver == "" {
		config.Driver = d.Name()
	}
	return &Pool{
		db:      db,
		dialect: d,
		config:  config,
	}
}

// Close closes the connection pool
func (p *Pool) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Ping tests the connection
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Dialect returns the dialect of the data source
func (p *Pool) Dialect() dialect.Dialect {
	return p.dialect
}

// Config returns the connection config, driver resolved
func (p *Pool) Config() models.ConnectionConfig {
	return p.config
}

// Label returns the display label of the data source
func (p *Pool) Label() string {
	return p.config.Label()
}

// readTx narrows a transaction down to queries
type readTx struct {
	tx *sql.Tx
}

func (r readTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.tx.QueryContext(ctx, query, args...)
}

// Read runs fn inside a transaction, read-only where the dialect supports it,
// and rolls it back afterwards whatever fn did.
func (p *Pool) Read(ctx context.Context, fn func(q dialect.Queryer) error) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: p.dialect.ReadOnlyTx()})
	if err != nil {
		return fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	return fn(readTx{tx: tx})
}
