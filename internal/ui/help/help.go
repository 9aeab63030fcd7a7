package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// Section is a titled group of key bindings
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Render creates the help view
func Render(width, height int, th theme.Theme, sections []Section) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazydb - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, binding := range section.Bindings {
			if !binding.Enabled() {
				continue
			}
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxWidth := width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}
	boxHeight := height - 4
	if boxHeight < 5 {
		boxHeight = 5
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(boxWidth).
		Height(boxHeight)

	return boxStyle.Render(b.String())
}
