package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// dispatch applies events to the display in order. It is the only place that
// reacts to selection and sampling events.
func (a *App) dispatch(events ...models.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		if cmd := a.apply(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) apply(ev models.Event) tea.Cmd {
	switch ev.Kind {
	case models.EventSelectionChanged:
		a.log.WithTable(ev.Table.QualifiedName()).Debugw("table selected")
		a.state.SampleSeq++
		a.state.Sampling = true
		a.state.Status = ""
		a.pending = ev.Table
		return tea.Batch(a.spinner.Tick, a.sampleCmd(a.state.SampleSeq, ev.Table))

	case models.EventDeselected:
		// the last sample stays on display until another one replaces it
		a.log.WithTable(ev.Table.QualifiedName()).Debugw("table deselected")

	case models.EventSampleReady:
		a.state.Sampling = false
		a.pending = nil
		a.sample = ev.Sample
		a.tableView.SetSample(ev.Table, ev.Sample)
		a.state.Status = fmt.Sprintf("%s: %d rows in %s", ev.Table.Description, ev.Sample.RowCount(), ev.Sample.Duration.Round(time.Millisecond))
		a.log.WithTable(ev.Table.QualifiedName()).Infow("sample ready",
			"rows", ev.Sample.RowCount(),
			"duration", ev.Sample.Duration,
		)

	case models.EventSampleFailed:
		a.state.Sampling = false
		a.pending = nil
		a.tableView.SetError(ev.Err)
		a.state.Status = ""
		a.log.WithTable(ev.Table.QualifiedName()).Errorw("sample failed", "error", ev.Err)
	}
	return nil
}
