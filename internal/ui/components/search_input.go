package components

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// SearchInputMsg is sent whenever the filter text changes
type SearchInputMsg struct {
	Query SearchQuery
}

// CloseSearchMsg is sent when the filter input closes. Clear is true when
// the filter was cancelled with Esc.
type CloseSearchMsg struct {
	Clear bool
}

// SearchInput is the table name filter box
type SearchInput struct {
	Input textinput.Model
	Theme theme.Theme
	Width int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "filter tables (!name excludes)"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Open focuses the input, keeping the previous filter text
func (s *SearchInput) Open() tea.Cmd {
	s.Input.CursorEnd()
	return s.Input.Focus()
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.Input.Blur()
}

// Query returns the parsed filter
func (s *SearchInput) Query() SearchQuery {
	return ParseSearchQuery(s.Input.Value())
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			s.Input.Blur()
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		case "esc":
			s.Reset()
			return s, func() tea.Msg {
				return CloseSearchMsg{Clear: true}
			}
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() == before {
		return s, cmd
	}

	query := s.Query()
	return s, tea.Batch(cmd, func() tea.Msg {
		return SearchInputMsg{Query: query}
	})
}

// View renders the search input
func (s *SearchInput) View() string {
	inputWidth := s.Width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width - 2)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	helpText := helpStyle.Render("Enter: keep │ Esc: clear")
	return boxStyle.Render(s.Input.View() + "\n" + helpText)
}
