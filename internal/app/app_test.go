package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/db/connection"
	"github.com/rebeliceyang/lazydb/internal/db/dberr"
	"github.com/rebeliceyang/lazydb/internal/db/metadata"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/components"
)

type fakeSampler struct {
	mu      sync.Mutex
	calls   []string
	results map[string]*models.SampleResult
	errs    map[string]error
}

func (f *fakeSampler) Sample(_ context.Context, table *models.TableDescriptor) (*models.SampleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, table.Name)
	if err := f.errs[table.Name]; err != nil {
		return nil, err
	}
	return f.results[table.Name], nil
}

func (f *fakeSampler) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func musicSnapshot() *models.SchemaSnapshot {
	snap := models.NewSchemaSnapshot("sqlite: music.db")
	snap.Add(&models.TableDescriptor{
		Name:        "albums",
		Description: "albums",
		Columns: []models.ColumnDescriptor{
			models.NewColumnDescriptor("id", "INTEGER", 0),
			models.NewColumnDescriptor("title", "TEXT", 1),
		},
	})
	snap.Add(&models.TableDescriptor{
		Name:        "artists",
		Description: "artists",
		Columns: []models.ColumnDescriptor{
			models.NewColumnDescriptor("id", "INTEGER", 0),
			models.NewColumnDescriptor("name", "TEXT", 1),
		},
	})
	return snap
}

func musicSampler() *fakeSampler {
	return &fakeSampler{
		results: map[string]*models.SampleResult{
			"albums": {
				Table:   "albums",
				Columns: []string{"id", "title"},
				Rows:    [][]string{{"1", "The Wall"}, {"2", "Back in Black"}},
				Nulls:   [][]bool{{false, false}, {false, false}},
				Limit:   100,
			},
			"artists": {
				Table:   "artists",
				Columns: []string{"id", "name"},
				Rows:    [][]string{{"1", "Pink Floyd"}},
				Nulls:   [][]bool{{false, false}},
				Limit:   100,
			},
		},
		errs: map[string]error{},
	}
}

func newTestApp(t *testing.T, snap *models.SchemaSnapshot, sampler RowSampler) *App {
	t.Helper()
	a := New(config.GetDefaults(), snap, sampler, nil)
	a.copyText = func(string) error { return nil }
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// drain runs cmd and feeds every resulting message back into the app until
// no work is left. Spinner ticks are not fed back.
func drain(a *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(a, cmd)
	}
}

func selectTable(t *testing.T, a *App, name string) {
	t.Helper()
	node := a.treeView.Root.FindByID("table:" + name)
	require.NotNil(t, node, name)
	_, cmd := a.Update(components.TreeNodeSelectedMsg{Node: node})
	drain(a, cmd)
}

func activeLabels(a *App) []string {
	var out []string
	for _, leaf := range a.treeView.Root.Leaves() {
		if leaf.Active {
			out = append(out, leaf.DisplayLabel())
		}
	}
	return out
}

func TestApp_AlbumsThenArtists(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)

	// root, group, albums
	press(a, "down", "down", "enter")

	assert.Equal(t, []string{"albums"}, sampler.Calls())
	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
	assert.Len(t, a.tableView.Rows, 2)
	assert.Equal(t, []string{models.ActiveMarker + "albums"}, activeLabels(a))
	assert.False(t, a.state.Sampling)

	press(a, "down", "enter")

	assert.Equal(t, []string{"albums", "artists"}, sampler.Calls())
	assert.Equal(t, []string{"id", "name"}, a.tableView.Columns)
	assert.Equal(t, [][]string{{"1", "Pink Floyd"}}, a.tableView.Rows)
	assert.Equal(t, []string{models.ActiveMarker + "artists"}, activeLabels(a))
	assert.Equal(t, "albums", a.treeView.Root.FindByID("table:albums").DisplayLabel())

	view := a.View()
	assert.Contains(t, view, models.ActiveMarker+"artists")
	assert.Contains(t, view, "Pink Floyd")
	assert.NotContains(t, view, "The Wall")
}

func TestApp_ReselectResamples(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)

	selectTable(t, a, "albums")
	sampler.results["albums"] = &models.SampleResult{
		Columns: []string{"id", "title"},
		Rows:    [][]string{{"3", "Animals"}},
		Limit:   100,
	}
	selectTable(t, a, "albums")

	assert.Equal(t, []string{"albums", "albums"}, sampler.Calls())
	assert.Equal(t, [][]string{{"3", "Animals"}}, a.tableView.Rows)
	assert.Equal(t, []string{models.ActiveMarker + "albums"}, activeLabels(a))
}

func TestApp_SampleFailureKeepsPreviousSample(t *testing.T) {
	sampler := musicSampler()
	sampler.errs["artists"] = &dberr.QueryError{Table: "artists", Err: errors.New("no such table: artists")}
	a := newTestApp(t, musicSnapshot(), sampler)

	selectTable(t, a, "albums")
	previous := a.sample
	selectTable(t, a, "artists")

	assert.Same(t, previous, a.sample)
	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
	assert.Len(t, a.tableView.Rows, 2)
	require.Error(t, a.tableView.Err)
	assert.True(t, dberr.IsQuery(a.tableView.Err))
	assert.False(t, a.state.Sampling)
	assert.Contains(t, a.View(), "no such table: artists")

	// the session stays usable and a good sample clears the banner
	selectTable(t, a, "albums")
	assert.NoError(t, a.tableView.Err)
	assert.Equal(t, []string{"albums", "artists", "albums"}, sampler.Calls())
}

func TestApp_SelectingGroupClearsHighlightOnly(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)

	selectTable(t, a, "albums")
	_, cmd := a.Update(components.TreeNodeSelectedMsg{Node: models.TablesGroup(a.treeView.Root)})
	drain(a, cmd)

	assert.Empty(t, activeLabels(a))
	assert.Equal(t, models.SelectionIdle, a.selection.State())
	assert.Equal(t, []string{"albums"}, sampler.Calls())
	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
	assert.Len(t, a.tableView.Rows, 2)

	_, cmd = a.Update(components.TreeNodeSelectedMsg{Node: a.treeView.Root})
	drain(a, cmd)
	assert.Equal(t, []string{"albums"}, sampler.Calls())
}

func TestApp_SingleFlightIgnoresInput(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)

	_, pending := a.Update(components.TreeNodeSelectedMsg{Node: a.treeView.Root.FindByID("table:albums")})
	require.True(t, a.state.Sampling)

	cursor := a.treeView.CursorIndex
	press(a, "down")
	assert.Equal(t, cursor, a.treeView.CursorIndex)

	_, cmd := a.Update(components.TreeNodeSelectedMsg{Node: a.treeView.Root.FindByID("table:artists")})
	assert.Nil(t, cmd)
	assert.Equal(t, "albums", a.selection.Table().Name)

	drain(a, pending)
	assert.False(t, a.state.Sampling)
	assert.Equal(t, []string{"albums"}, sampler.Calls())
	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
}

func TestApp_DropsStaleResults(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)
	selectTable(t, a, "albums")

	artists, _ := a.snapshot.Get("artists")
	stale := sampleResultMsg{
		seq:   a.state.SampleSeq - 1,
		event: models.SampleReady(artists, sampler.results["artists"]),
	}
	a.Update(stale)

	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
}

func TestApp_QuitAndHelp(t *testing.T) {
	a := newTestApp(t, musicSnapshot(), musicSampler())

	press(a, "?")
	assert.Equal(t, models.HelpMode, a.state.ViewMode)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	_, cmd := a.Update(keyMsg("q"))
	assert.Nil(t, cmd, "q closes help first")
	assert.Equal(t, models.NormalMode, a.state.ViewMode)

	_, cmd = a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_FilterIsVisualOnly(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)
	selectTable(t, a, "albums")

	press(a, "/", "a", "r", "t")
	assert.Equal(t, models.FilterMode, a.state.ViewMode)
	assert.Equal(t, "art", a.treeView.Filter.Pattern)

	var visible []string
	for _, n := range a.treeView.VisibleNodes() {
		if n.IsTableLeaf() {
			visible = append(visible, n.Label)
		}
	}
	assert.Equal(t, []string{"artists"}, visible)
	assert.Equal(t, "albums", a.selection.Table().Name)
	assert.Contains(t, a.View(), "artists")

	press(a, "enter")
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
	assert.Equal(t, "art", a.treeView.Filter.Pattern)

	press(a, "esc")
	assert.True(t, a.treeView.Filter.IsEmpty())
	assert.Equal(t, []string{"albums"}, sampler.Calls())
}

func TestApp_CopyFromSample(t *testing.T) {
	a := newTestApp(t, musicSnapshot(), musicSampler())
	var copied []string
	a.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	selectTable(t, a, "albums")

	press(a, "tab", "down", "y", "l", "c")

	assert.Equal(t, []string{"2\tBack in Black", "Back in Black"}, copied)
	assert.Equal(t, "Copied cell", a.state.Status)

	a.copyText = func(string) error { return errors.New("no clipboard") }
	press(a, "c")
	assert.Contains(t, a.state.Status, "no clipboard")
}

func TestApp_MouseClickSelectsTable(t *testing.T) {
	sampler := musicSampler()
	a := newTestApp(t, musicSnapshot(), sampler)

	// top bar, border and title come first; line 3 of the tree is artists
	_, cmd := a.Update(tea.MouseMsg{X: 4, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	drain(a, cmd)
	assert.Equal(t, []string{"artists"}, sampler.Calls())

	// clicks in the sample pane do nothing
	_, cmd = a.Update(tea.MouseMsg{X: 100, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
}

func TestApp_EndToEndSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		"CREATE TABLE albums (id INTEGER PRIMARY KEY, title TEXT)",
		"CREATE TABLE artists (id INTEGER PRIMARY KEY, name TEXT)",
		"INSERT INTO artists (name) VALUES ('AC/DC'), (NULL)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	for i := 0; i < 150; i++ {
		_, err := db.Exec("INSERT INTO albums (title) VALUES (?)", fmt.Sprintf("album %d", i))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	ctx := context.Background()
	pool, err := connection.Open(ctx, models.ConnectionConfig{Driver: "sqlite", DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	snap, err := metadata.Reflect(ctx, pool)
	require.NoError(t, err)

	a := newTestApp(t, snap, metadata.NewSampler(pool, metadata.SampleOptions{}))

	selectTable(t, a, "albums")
	assert.Equal(t, []string{"id", "title"}, a.tableView.Columns)
	assert.Len(t, a.tableView.Rows, 100)
	assert.Equal(t, "album 0", a.tableView.Rows[0][1])

	selectTable(t, a, "artists")
	assert.Equal(t, []string{"id", "name"}, a.tableView.Columns)
	require.Len(t, a.tableView.Rows, 2)
	assert.Equal(t, "NULL", a.tableView.Rows[1][1])
	assert.True(t, a.tableView.Nulls[1][1])
	assert.Equal(t, []string{models.ActiveMarker + "artists"}, activeLabels(a))
	assert.True(t, strings.Contains(a.View(), "artists · 2 rows (limit 100)"))
}
