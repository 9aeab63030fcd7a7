package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

func TestRender(t *testing.T) {
	sections := []Section{
		{
			Title: "Tree",
			Bindings: []key.Binding{
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Sample table")),
				key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Hidden"), key.WithDisabled()),
			},
		},
	}

	out := Render(100, 30, theme.DefaultTheme(), sections)

	for _, want := range []string{"Keyboard Shortcuts", "Tree", "enter", "Sample table"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
	if strings.Contains(out, "Hidden") {
		t.Error("disabled bindings should not be listed")
	}
}
