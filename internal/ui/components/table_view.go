package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

const (
	minColumnWidth = 4
	columnGap      = " │ "
)

var cellReplacer = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\r", "↵", "\t", " ")

// TableView displays the sampled rows of one table
type TableView struct {
	Caption string // table the rows belong to
	Columns []string
	Kinds   []models.ColumnKind
	Rows    [][]string
	Nulls   [][]bool
	Limit   int
	Width   int
	Height  int
	Theme   theme.Theme
	Style   lipgloss.Style

	// MaxCellWidth caps a column's display width
	MaxCellWidth int

	// Err is shown as a banner above the last good sample
	Err error

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int
	LeftCol     int

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Columns:      []string{},
		Rows:         [][]string{},
		ColumnWidths: []int{},
		MaxCellWidth: 50,
		Theme:        th,
	}
}

// Clear removes columns, rows and any error
func (tv *TableView) Clear() {
	tv.Caption = ""
	tv.Columns = []string{}
	tv.Kinds = nil
	tv.Rows = [][]string{}
	tv.Nulls = nil
	tv.Limit = 0
	tv.Err = nil
	tv.TopRow = 0
	tv.SelectedRow = 0
	tv.SelectedCol = 0
	tv.LeftCol = 0
	tv.ColumnWidths = []int{}
}

// SetColumns sets the header from column descriptors in declared order
func (tv *TableView) SetColumns(columns []models.ColumnDescriptor) {
	tv.Columns = make([]string, len(columns))
	tv.Kinds = make([]models.ColumnKind, len(columns))
	for i, c := range columns {
		tv.Columns[i] = c.Name
		tv.Kinds[i] = c.Kind
	}
	tv.calculateColumnWidths()
}

// AppendRows appends rendered rows. nulls may be nil.
func (tv *TableView) AppendRows(rows [][]string, nulls [][]bool) {
	for i, row := range rows {
		tv.Rows = append(tv.Rows, row)
		var mask []bool
		if i < len(nulls) {
			mask = nulls[i]
		}
		tv.Nulls = append(tv.Nulls, mask)
	}
	tv.calculateColumnWidths()
}

// SetSample replaces the view content with a sample of table
func (tv *TableView) SetSample(table *models.TableDescriptor, sample *models.SampleResult) {
	tv.Clear()
	tv.Caption = table.Description
	tv.Limit = sample.Limit

	if len(table.Columns) > 0 {
		tv.SetColumns(table.Columns)
	} else {
		cols := make([]models.ColumnDescriptor, len(sample.Columns))
		for i, name := range sample.Columns {
			cols[i] = models.ColumnDescriptor{Name: name, Position: i}
		}
		tv.SetColumns(cols)
	}
	tv.AppendRows(sample.Rows, sample.Nulls)
}

// SetError shows err above the current content
func (tv *TableView) SetError(err error) {
	tv.Err = err
}

// ClearError removes the error banner
func (tv *TableView) ClearError() {
	tv.Err = nil
}

// HasData reports whether a sample is displayed
func (tv *TableView) HasData() bool {
	return len(tv.Columns) > 0
}

// calculateColumnWidths calculates optimal column widths
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	// Start with column header lengths
	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col)
	}

	// Check row data
	for _, row := range tv.Rows {
		for i, cell := range row {
			if i < len(tv.ColumnWidths) {
				if w := runewidth.StringWidth(sanitizeCell(cell)); w > tv.ColumnWidths[i] {
					tv.ColumnWidths[i] = w
				}
			}
		}
	}

	maxWidth := tv.MaxCellWidth
	if maxWidth < minColumnWidth {
		maxWidth = 50
	}
	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > maxWidth {
			tv.ColumnWidths[i] = maxWidth
		}
		if tv.ColumnWidths[i] < minColumnWidth {
			tv.ColumnWidths[i] = minColumnWidth
		}
	}
}

// View renders the table
func (tv *TableView) View() string {
	var b strings.Builder

	bodyHeight := tv.Height
	if tv.Err != nil {
		b.WriteString(tv.renderError())
		b.WriteString("\n")
		bodyHeight--
	}

	if len(tv.Columns) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(tv.Theme.Metadata).
			Italic(true).
			Render("Select a table to preview its rows"))
		return tv.Style.Width(tv.Width).Height(tv.Height).Render(b.String())
	}

	cols := tv.visibleColumns()

	b.WriteString(tv.renderHeader(cols))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(cols))
	b.WriteString("\n")

	// Header + separator + status
	tv.VisibleRows = bodyHeight - 3
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}
	tv.clampScroll()

	if len(tv.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Italic(true).Render(" (no rows)"))
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(i, cols))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tv.renderStatus())

	return tv.Style.Width(tv.Width).Height(tv.Height).Render(b.String())
}

// visibleColumns returns the column indexes that fit, starting at LeftCol
func (tv *TableView) visibleColumns() []int {
	if tv.LeftCol >= len(tv.Columns) {
		tv.LeftCol = 0
	}

	var cols []int
	used := 2 // outer padding
	for i := tv.LeftCol; i < len(tv.Columns); i++ {
		w := tv.ColumnWidths[i]
		if len(cols) > 0 {
			w += len(columnGap)
		}
		if len(cols) > 0 && tv.Width > 0 && used+w > tv.Width {
			break
		}
		used += w
		cols = append(cols, i)
	}
	return cols
}

func (tv *TableView) renderHeader(cols []int) string {
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		parts = append(parts, tv.pad(tv.Columns[i], tv.ColumnWidths[i], false))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader).
		Background(tv.Theme.TableRowOdd)
	return headerStyle.Render(" " + strings.Join(parts, columnGap) + " ")
}

func (tv *TableView) renderSeparator(cols []int) string {
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		parts = append(parts, strings.Repeat("─", tv.ColumnWidths[i]))
	}
	separatorStyle := lipgloss.NewStyle().Foreground(tv.Theme.Border)
	return separatorStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(rowIdx int, cols []int) string {
	row := tv.Rows[rowIdx]
	selected := rowIdx == tv.SelectedRow

	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		numeric := i < len(tv.Kinds) && tv.Kinds[i].Numeric()
		text := tv.pad(cell, tv.ColumnWidths[i], numeric)

		style := lipgloss.NewStyle()
		switch {
		case tv.isNull(rowIdx, i):
			style = style.Foreground(tv.Theme.Null).Italic(true)
		case numeric:
			style = style.Foreground(tv.Theme.Number)
		}
		if selected && i == tv.SelectedCol {
			style = style.Underline(true)
		}
		parts = append(parts, style.Render(text))
	}

	line := " " + strings.Join(parts, columnGap) + " "

	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Bold(true).
			Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	status := fmt.Sprintf(" %s · %d rows", tv.Caption, len(tv.Rows))
	if tv.Limit > 0 {
		status += fmt.Sprintf(" (limit %d)", tv.Limit)
	}
	if len(tv.Rows) > 0 {
		status += fmt.Sprintf(" · row %d", tv.SelectedRow+1)
	}
	if len(tv.Columns) > 0 && tv.SelectedCol < len(tv.Columns) {
		status += fmt.Sprintf(" · col %s", tv.Columns[tv.SelectedCol])
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Render(status)
}

func (tv *TableView) renderError() string {
	msg := "✗ " + tv.Err.Error()
	if tv.Width > 2 {
		msg = runewidth.Truncate(msg, tv.Width-2, "…")
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Error).
		Bold(true).
		Render(msg)
}

func (tv *TableView) isNull(row, col int) bool {
	if row < 0 || row >= len(tv.Nulls) {
		return false
	}
	mask := tv.Nulls[row]
	return col >= 0 && col < len(mask) && mask[col]
}

// pad fits s into width display cells
func (tv *TableView) pad(s string, width int, right bool) string {
	s = runewidth.Truncate(sanitizeCell(s), width, "…")
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func sanitizeCell(s string) string {
	return cellReplacer.Replace(s)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clampScroll()
}

// MoveColumn moves the selected column left or right, scrolling horizontally
func (tv *TableView) MoveColumn(delta int) {
	if len(tv.Columns) == 0 {
		return
	}
	tv.SelectedCol += delta
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
	if tv.SelectedCol >= len(tv.Columns) {
		tv.SelectedCol = len(tv.Columns) - 1
	}

	if tv.SelectedCol < tv.LeftCol {
		tv.LeftCol = tv.SelectedCol
	}
	for {
		cols := tv.visibleColumns()
		if len(cols) == 0 || tv.SelectedCol <= cols[len(cols)-1] || tv.LeftCol >= tv.SelectedCol {
			break
		}
		tv.LeftCol++
	}
}

// clampScroll keeps the selection in range and visible
func (tv *TableView) clampScroll() {
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	visible := tv.VisibleRows
	if visible < 1 {
		visible = 1
	}
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedRow >= tv.TopRow+visible {
		tv.TopRow = tv.SelectedRow - visible + 1
	}
	if tv.TopRow < 0 {
		tv.TopRow = 0
	}
}

// PageUp moves the selection one page up
func (tv *TableView) PageUp() {
	tv.SelectedRow -= tv.VisibleRows
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
}

// PageDown moves the selection one page down
func (tv *TableView) PageDown() {
	tv.SelectedRow += tv.VisibleRows
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+tv.VisibleRows > len(tv.Rows) {
		tv.TopRow = len(tv.Rows) - tv.VisibleRows
		if tv.TopRow < 0 {
			tv.TopRow = 0
		}
	}
}

// SelectedRowValues returns the cells of the selected row
func (tv *TableView) SelectedRowValues() []string {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil
	}
	return tv.Rows[tv.SelectedRow]
}

// SelectedCell returns the selected cell
func (tv *TableView) SelectedCell() (string, bool) {
	row := tv.SelectedRowValues()
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(row) {
		return "", false
	}
	return row[tv.SelectedCol], true
}
