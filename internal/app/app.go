package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazydb/internal/config"
	"github.com/rebeliceyang/lazydb/internal/logger"
	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/components"
	"github.com/rebeliceyang/lazydb/internal/ui/help"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// RowSampler reads a bounded sample of a table
type RowSampler interface {
	Sample(ctx context.Context, table *models.TableDescriptor) (*models.SampleResult, error)
}

// App is the main application model. It owns the tree and sample regions and
// is the only consumer of selection and sampling events.
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   KeyMap
	log    *logger.Logger

	snapshot  *models.SchemaSnapshot
	sampler   RowSampler
	selection *models.Selection

	leftPanel  components.Panel
	rightPanel components.Panel
	treeView   *components.TreeView
	tableView  *components.TableView
	search     *components.SearchInput
	spinner    spinner.Model

	// sample currently on display, replaced only by a successful read
	sample  *models.SampleResult
	pending *models.TableDescriptor

	queryTimeout time.Duration
	copyText     func(string) error
}

// sampleResultMsg carries the outcome of one sample read. seq identifies the
// request so results of superseded reads can be dropped.
type sampleResultMsg struct {
	seq   int
	event models.Event
}

// New creates the application model for an already reflected snapshot
func New(cfg *config.Config, snapshot *models.SchemaSnapshot, sampler RowSampler, log *logger.Logger) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	if log == nil {
		log = logger.NewNop()
	}

	state := models.NewAppState()
	th := theme.GetTheme(cfg.UI.Theme)

	if cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}

	tableView := components.NewTableView(th)
	if cfg.Data.MaxCellDisplayLength > 0 {
		tableView.MaxCellWidth = cfg.Data.MaxCellDisplayLength
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(th.Info)

	app := &App{
		state:        state,
		config:       cfg,
		theme:        th,
		keys:         DefaultKeyMap(),
		log:          log,
		snapshot:     snapshot,
		sampler:      sampler,
		selection:    models.NewSelection(),
		treeView:     components.NewTreeView(models.BuildSchemaTree(snapshot), th),
		tableView:    tableView,
		search:       components.NewSearchInput(th),
		spinner:      sp,
		queryTimeout: cfg.QueryTimeout(),
		copyText:     clipboard.WriteAll,
		leftPanel: components.Panel{
			Title: "Tables",
		},
		rightPanel: components.Panel{
			Title: "Sample",
		},
	}

	app.updatePanelDimensions()
	app.updatePanelStyles()

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case components.TreeNodeSelectedMsg:
		if a.state.Sampling {
			return a, nil
		}
		return a, a.dispatch(a.selection.Select(msg.Node)...)

	case sampleResultMsg:
		if msg.seq != a.state.SampleSeq {
			a.log.Debugw("dropping stale sample", "seq", msg.seq, "current", a.state.SampleSeq)
			return a, nil
		}
		return a, a.dispatch(msg.event)

	case components.SearchInputMsg:
		a.treeView.SetFilter(msg.Query)
		return a, nil

	case components.CloseSearchMsg:
		a.state.ViewMode = models.NormalMode
		if msg.Clear {
			a.treeView.ClearFilter()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.state.Sampling {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		switch {
		case key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Quit):
			a.state.ViewMode = models.NormalMode
		}
		return a, nil

	case models.FilterMode:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}

	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	// one sample read at a time; the rest of the UI waits for it
	if a.state.Sampling {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Help):
		a.state.ViewMode = models.HelpMode
		return a, nil

	case key.Matches(msg, a.keys.Filter):
		a.state.ViewMode = models.FilterMode
		a.state.FocusedPanel = models.LeftPanel
		a.updatePanelStyles()
		return a, a.search.Open()

	case key.Matches(msg, a.keys.SwitchPanel):
		if a.state.FocusedPanel == models.LeftPanel {
			a.state.FocusedPanel = models.RightPanel
		} else {
			a.state.FocusedPanel = models.LeftPanel
		}
		a.updatePanelStyles()
		return a, nil

	case key.Matches(msg, a.keys.Back):
		if !a.treeView.Filter.IsEmpty() {
			a.search.Reset()
			a.treeView.ClearFilter()
		}
		return a, nil
	}

	if a.state.FocusedPanel == models.LeftPanel {
		var cmd tea.Cmd
		a.treeView, cmd = a.treeView.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		a.tableView.MoveSelection(-1)
	case key.Matches(msg, a.keys.Down):
		a.tableView.MoveSelection(1)
	case key.Matches(msg, a.keys.Left):
		a.tableView.MoveColumn(-1)
	case key.Matches(msg, a.keys.Right):
		a.tableView.MoveColumn(1)
	case key.Matches(msg, a.keys.PageUp):
		a.tableView.PageUp()
	case key.Matches(msg, a.keys.PageDown):
		a.tableView.PageDown()
	case key.Matches(msg, a.keys.CopyRow):
		if row := a.tableView.SelectedRowValues(); row != nil {
			a.copy("row", strings.Join(row, "\t"))
		}
	case key.Matches(msg, a.keys.CopyCell):
		if cell, ok := a.tableView.SelectedCell(); ok {
			a.copy("cell", cell)
		}
	}
	return a, nil
}

// handleMouse activates the tree entry under a left click
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !a.config.UI.MouseEnabled || a.state.ViewMode != models.NormalMode || a.state.Sampling {
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	// left panel spans its content width plus two border columns
	if msg.X >= a.leftPanel.Width+2 {
		return nil
	}

	a.state.FocusedPanel = models.LeftPanel
	a.updatePanelStyles()

	// top bar, panel border and panel title sit above the first tree line
	return a.treeView.ActivateAt(msg.Y - 3)
}

func (a *App) copy(what, text string) {
	if err := a.copyText(text); err != nil {
		a.log.Warnw("clipboard write failed", "what", what, "error", err)
		a.state.Status = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	a.state.Status = fmt.Sprintf("Copied %s", what)
}

// sampleCmd reads a sample of table off the event loop
func (a *App) sampleCmd(seq int, table *models.TableDescriptor) tea.Cmd {
	sampler := a.sampler
	timeout := a.queryTimeout
	return func() tea.Msg {
		if sampler == nil {
			return sampleResultMsg{seq: seq, event: models.SampleFailed(table, fmt.Errorf("no data source"))}
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		sample, err := sampler.Sample(ctx, table)
		if err != nil {
			return sampleResultMsg{seq: seq, event: models.SampleFailed(table, err)}
		}
		return sampleResultMsg{seq: seq, event: models.SampleReady(table, sample)}
	}
}

// View implements tea.Model
func (a *App) View() string {
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme, a.keys.HelpSections())
	}
	return a.renderNormalView()
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	source := "lazydb"
	if a.snapshot != nil && a.snapshot.Source != "" {
		source = "lazydb · " + a.snapshot.Source
	}
	topBarContent := a.formatStatusBar(source, a.activityText())

	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(topBarContent)

	bottomBarLeft := "[tab] Switch panel | [/] Filter | [?] Help | [q] Quit"
	if a.state.Status != "" {
		bottomBarLeft = a.state.Status
	}
	bottomBarContent := a.formatStatusBar(bottomBarLeft, fmt.Sprintf("%d tables", a.snapshot.Len()))

	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(bottomBarContent)

	a.treeView.Width = a.leftPanel.Width
	a.treeView.Height = a.leftPanel.Height
	if a.state.ViewMode == models.FilterMode {
		a.search.Width = a.leftPanel.Width
		searchView := a.search.View()
		a.treeView.Height = a.leftPanel.Height - lipgloss.Height(searchView)
		a.leftPanel.Content = lipgloss.JoinVertical(lipgloss.Left, searchView, a.treeView.View())
	} else {
		a.leftPanel.Content = a.treeView.View()
	}

	a.tableView.Width = a.rightPanel.Width
	a.tableView.Height = a.rightPanel.Height - 1
	a.rightPanel.Content = a.tableView.View()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

// activityText describes the sample read in flight or the table on display
func (a *App) activityText() string {
	if a.state.Sampling && a.pending != nil {
		return a.spinner.View() + " sampling " + a.pending.Description + "…"
	}
	if table := a.selection.Table(); table != nil {
		return "▶ " + table.Description
	}
	return ""
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top bar, bottom bar and the panel borders
	contentHeight := a.state.Height - 4
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}

	// Subtract 4 to account for borders on both panels (2 chars each)
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	if a.state.FocusedPanel == models.LeftPanel {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
	} else {
		a.leftPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.Border)
		a.rightPanel.Style = lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
	}
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := runewidth.StringWidth(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return runewidth.Truncate(left, availableWidth-rightLen, "…") + right
		}
		return runewidth.Truncate(left, availableWidth, "…")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}
