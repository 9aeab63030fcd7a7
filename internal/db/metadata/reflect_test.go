package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/db/dberr"
	"github.com/rebeliceyang/lazydb/internal/db/dialect"
	"github.com/rebeliceyang/lazydb/internal/models"
)

// openSQLite creates a database file with stmts applied and opens it through
// the read-only pool.
func openSQLite(t *testing.T, stmts ...string) *connection.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "music.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	pool, err := connection.Open(context.Background(), models.ConnectionConfig{Driver: "sqlite", DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func mockPool(t *testing.T) (*connection.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d, err := dialect.Lookup("sqlite")
	require.NoError(t, err)
	return connection.NewPool(db, d, models.ConnectionConfig{DSN: "mock.db"}), mock
}

var musicSchema = []string{
	"CREATE TABLE artists (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
	"CREATE TABLE albums (id INTEGER PRIMARY KEY, title TEXT, artist_id INTEGER REFERENCES artists(id), released DATE, cover BLOB)",
	"CREATE VIEW album_titles AS SELECT title FROM albums",
}

func TestReflect_SQLite(t *testing.T) {
	pool := openSQLite(t, musicSchema...)

	snap, err := Reflect(context.Background(), pool)
	require.NoError(t, err)

	assert.Equal(t, "sqlite: music.db", snap.Source)
	assert.Equal(t, []string{"albums", "artists"}, snap.Names())

	albums, ok := snap.Get("albums")
	require.True(t, ok)
	assert.Equal(t, "albums", albums.Description)
	assert.Equal(t, []string{"id", "title", "artist_id", "released", "cover"}, albums.ColumnNames())
	for i, c := range albums.Columns {
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, models.KindInteger, albums.Columns[0].Kind)
	assert.Equal(t, models.KindText, albums.Columns[1].Kind)
	assert.Equal(t, models.KindTemporal, albums.Columns[3].Kind)
	assert.Equal(t, models.KindBinary, albums.Columns[4].Kind)
}

func TestReflect_Idempotent(t *testing.T) {
	pool := openSQLite(t, musicSchema...)

	first, err := Reflect(context.Background(), pool)
	require.NoError(t, err)
	second, err := Reflect(context.Background(), pool)
	require.NoError(t, err)

	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Names(), second.Names())
	for _, name := range first.Names() {
		a, _ := first.Get(name)
		b, ok := second.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, *a, *b, name)
	}
}

func TestReflect_EmptyDatabase(t *testing.T) {
	pool := openSQLite(t, "PRAGMA user_version = 1")

	snap, err := Reflect(context.Background(), pool)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestReflect_CatalogFailure(t *testing.T) {
	pool, mock := mockPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sqlite_master").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	snap, err := Reflect(context.Background(), pool)
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, dberr.IsReflection(err))
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReflect_BeginFailure(t *testing.T) {
	pool, mock := mockPool(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	_, err := Reflect(context.Background(), pool)
	assert.True(t, dberr.IsReflection(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildSnapshot(t *testing.T) {
	cols := []dialect.CatalogColumn{
		{Schema: "public", Table: "albums", Column: "id", Type: "integer", Ordinal: 1},
		{Schema: "public", Table: "albums", Column: "title", Type: "text", Ordinal: 3},
		{Schema: "sales", Table: "invoices", Column: "id", Type: "bigint", Ordinal: 1},
	}

	snap, err := BuildSnapshot("pg", "public", cols)
	require.NoError(t, err)

	assert.Equal(t, []string{"public.albums", "sales.invoices"}, snap.Names())
	tables := snap.Tables()
	assert.Equal(t, "albums", tables[0].Description)
	assert.Equal(t, "sales.invoices", tables[1].Description)
	// gaps in catalog ordinals do not leak into positions
	assert.Equal(t, 1, tables[0].Columns[1].Position)
}

func TestBuildSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cols []dialect.CatalogColumn
	}{
		{"empty table name", []dialect.CatalogColumn{{Column: "id"}}},
		{"empty column name", []dialect.CatalogColumn{{Table: "t"}}},
		{"non contiguous", []dialect.CatalogColumn{
			{Table: "a", Column: "id"},
			{Table: "b", Column: "id"},
			{Table: "a", Column: "name"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := BuildSnapshot("x", "", tt.cols)
			assert.Nil(t, snap)
			assert.True(t, dberr.IsReflection(err), fmt.Sprintf("%v", err))
		})
	}
}
