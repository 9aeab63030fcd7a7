package components

// TreeView renders the schema tree (data source → "Tables" → one leaf per
// table) with keyboard navigation and viewport scrolling.
//
// Features:
//   - Unicode icons (▾ expanded, • table)
//   - Keyboard navigation (↑↓/jk, g/G, pgup/pgdn, enter/space/l to activate)
//   - Automatic viewport scrolling for large schemas
//   - Active table highlighting with a marker
//   - Table count on the group node
//   - Optional fuzzy filter over table names
//
// Usage:
//
//	root := models.BuildSchemaTree(snapshot)
//	treeView := components.NewTreeView(root, theme)
//	treeView.Width = 40
//	treeView.Height = 20
//
//	// In your Update method:
//	treeView, cmd := treeView.Update(msg)
//
//	// In your View method:
//	content := treeView.View()

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazydb/internal/models"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// TreeView represents a visual tree component for the schema tree
type TreeView struct {
	Root         *models.TreeNode // Root node of the tree
	CursorIndex  int              // Current cursor position in the visible list
	Width        int              // Display width
	Height       int              // Display height
	Theme        theme.Theme      // Color theme
	ScrollOffset int              // Vertical scroll offset for viewport
	Filter       SearchQuery      // Table name filter; empty shows all tables
}

// TreeNodeSelectedMsg is sent when a node is activated (Enter, Space or click)
type TreeNodeSelectedMsg struct {
	Node *models.TreeNode
}

// NewTreeView creates a new tree view component
func NewTreeView(root *models.TreeNode, theme theme.Theme) *TreeView {
	return &TreeView{
		Root:         root,
		CursorIndex:  0,
		Width:        40,
		Height:       20,
		Theme:        theme,
		ScrollOffset: 0,
	}
}

// VisibleNodes returns the nodes currently shown, filter applied
func (tv *TreeView) VisibleNodes() []*models.TreeNode {
	if tv.Root == nil {
		return nil
	}
	if tv.Filter.IsEmpty() {
		return tv.Root.Flatten()
	}
	filter := tv.Filter
	return tv.Root.FlattenFiltered(func(n *models.TreeNode) bool {
		return MatchesTable(n, filter)
	})
}

// SetFilter filters the table leaves. The cursor stays on the same node when
// it is still visible.
func (tv *TreeView) SetFilter(query SearchQuery) {
	current := tv.GetCurrentNode()
	tv.Filter = query
	tv.ScrollOffset = 0
	if current == nil || !tv.SetCursorToNode(current.ID) {
		tv.CursorIndex = tv.firstTableIndex()
	}
}

// ClearFilter shows all tables again
func (tv *TreeView) ClearFilter() {
	tv.SetFilter(SearchQuery{})
}

func (tv *TreeView) firstTableIndex() int {
	for i, node := range tv.VisibleNodes() {
		if node.IsTableLeaf() {
			return i
		}
	}
	return 0
}

// viewHeight is the number of node lines that fit
func (tv *TreeView) viewHeight() int {
	// Subtract 2 for borders, 2 for title/help
	viewHeight := tv.Height - 4
	if viewHeight < 1 {
		viewHeight = 1
	}
	return viewHeight
}

// View renders the tree as a string
func (tv *TreeView) View() string {
	if tv.Root == nil {
		return tv.emptyState("No data source")
	}

	visibleNodes := tv.VisibleNodes()

	// Ensure cursor is within bounds
	if tv.CursorIndex < 0 {
		tv.CursorIndex = 0
	}
	if tv.CursorIndex >= len(visibleNodes) {
		tv.CursorIndex = len(visibleNodes) - 1
	}

	viewHeight := tv.viewHeight()

	// Auto-scroll to keep cursor visible
	tv.adjustScrollOffset(len(visibleNodes), viewHeight)

	var lines []string

	// Calculate visible range
	startIdx := tv.ScrollOffset
	endIdx := tv.ScrollOffset + viewHeight
	if endIdx > len(visibleNodes) {
		endIdx = len(visibleNodes)
	}

	for i := startIdx; i < endIdx; i++ {
		lines = append(lines, tv.renderNode(visibleNodes[i], i == tv.CursorIndex))
	}

	if len(tv.Root.Leaves()) == 0 {
		lines = append(lines, tv.emptyState("No tables"))
	} else if !tv.Filter.IsEmpty() && len(FilterTree(tv.Root, tv.Filter)) == 0 {
		lines = append(lines, tv.emptyState("No matching tables"))
	}

	// Fill remaining space if needed
	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")

	// Add scroll indicators if needed
	if tv.ScrollOffset > 0 || endIdx < len(visibleNodes) {
		content = tv.addScrollIndicators(content, startIdx, endIdx, len(visibleNodes))
	}

	return content
}

// Update handles keyboard input for tree navigation
func (tv *TreeView) Update(msg tea.KeyMsg) (*TreeView, tea.Cmd) {
	visibleNodes := tv.VisibleNodes()
	if len(visibleNodes) == 0 {
		return tv, nil
	}

	var cmd tea.Cmd

	switch msg.String() {
	case "up", "k":
		if tv.CursorIndex > 0 {
			tv.CursorIndex--
		}

	case "down", "j":
		if tv.CursorIndex < len(visibleNodes)-1 {
			tv.CursorIndex++
		}

	case "pgup", "ctrl+u":
		tv.CursorIndex -= tv.viewHeight()
		if tv.CursorIndex < 0 {
			tv.CursorIndex = 0
		}

	case "pgdown", "ctrl+d":
		tv.CursorIndex += tv.viewHeight()
		if tv.CursorIndex > len(visibleNodes)-1 {
			tv.CursorIndex = len(visibleNodes) - 1
		}

	case "g", "home":
		// Jump to top
		tv.CursorIndex = 0
		tv.ScrollOffset = 0

	case "G", "end":
		// Jump to bottom
		tv.CursorIndex = len(visibleNodes) - 1

	case "left", "h":
		// Move to parent
		current := tv.GetCurrentNode()
		if current != nil && current.Parent != nil {
			if idx := tv.findNodeIndex(visibleNodes, current.Parent); idx >= 0 {
				tv.CursorIndex = idx
			}
		}

	case "enter", " ", "right", "l":
		cmd = tv.activate(tv.GetCurrentNode())
	}

	return tv, cmd
}

// ActivateAt moves the cursor to the given content line and activates the
// node there. Used for mouse clicks; lines outside the tree are ignored.
func (tv *TreeView) ActivateAt(line int) tea.Cmd {
	if line < 0 || line >= tv.viewHeight() {
		return nil
	}
	idx := tv.ScrollOffset + line
	visibleNodes := tv.VisibleNodes()
	if idx >= len(visibleNodes) {
		return nil
	}
	tv.CursorIndex = idx
	return tv.activate(visibleNodes[idx])
}

func (tv *TreeView) activate(node *models.TreeNode) tea.Cmd {
	if node == nil || !node.Selectable {
		return nil
	}
	return func() tea.Msg {
		return TreeNodeSelectedMsg{Node: node}
	}
}

// renderNode renders a single tree node with appropriate styling
func (tv *TreeView) renderNode(node *models.TreeNode, selected bool) string {
	if node == nil {
		return ""
	}

	indent := strings.Repeat("  ", node.GetDepth())
	icon := tv.getNodeIcon(node)
	label := tv.buildNodeLabel(node)

	maxWidth := tv.Width - 4 // padding and scroll indicator
	if maxWidth < 4 {
		maxWidth = 4
	}

	// Truncate the plain text before styling so widths stay exact
	plain := fmt.Sprintf("%s%s %s", indent, icon, label)
	plain = runewidth.Truncate(plain, maxWidth, "…")

	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Foreground).
		Width(maxWidth)

	switch {
	case node.Active:
		style = style.Foreground(tv.Theme.Highlight).Bold(true)
	case node.Type == models.TreeNodeTypeRoot:
		style = style.Foreground(tv.Theme.RootIcon).Bold(true)
	case node.Type == models.TreeNodeTypeGroup:
		style = style.Foreground(tv.Theme.GroupIcon)
	}
	if selected {
		style = style.Background(tv.Theme.Selection).Bold(true)
	}

	return style.Render(plain)
}

// getNodeIcon returns the appropriate icon for a node
func (tv *TreeView) getNodeIcon(node *models.TreeNode) string {
	if node.IsTableLeaf() {
		return "•"
	}
	if node.Expanded {
		return "▾"
	}
	return "▸"
}

// buildNodeLabel builds the display label for a node, including metadata
func (tv *TreeView) buildNodeLabel(node *models.TreeNode) string {
	label := node.DisplayLabel()

	if node.Type == models.TreeNodeTypeGroup {
		total := len(node.Children)
		switch {
		case total == 0:
			label += " (empty)"
		case !tv.Filter.IsEmpty():
			label += fmt.Sprintf(" (%d/%d)", len(FilterTree(node, tv.Filter)), total)
		default:
			label += fmt.Sprintf(" (%d)", total)
		}
	}

	return label
}

// adjustScrollOffset adjusts the scroll offset to keep the cursor visible
func (tv *TreeView) adjustScrollOffset(totalNodes, viewHeight int) {
	if tv.CursorIndex < tv.ScrollOffset {
		tv.ScrollOffset = tv.CursorIndex
	}
	if tv.CursorIndex >= tv.ScrollOffset+viewHeight {
		tv.ScrollOffset = tv.CursorIndex - viewHeight + 1
	}

	// Ensure scroll offset is within bounds
	maxScroll := totalNodes - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if tv.ScrollOffset > maxScroll {
		tv.ScrollOffset = maxScroll
	}
	if tv.ScrollOffset < 0 {
		tv.ScrollOffset = 0
	}
}

// addScrollIndicators marks the first and last line when more nodes exist
// above or below the viewport
func (tv *TreeView) addScrollIndicators(content string, startIdx, endIdx, total int) string {
	lines := strings.Split(content, "\n")
	indicator := lipgloss.NewStyle().Foreground(tv.Theme.Info)

	if startIdx > 0 && len(lines) > 0 {
		lines[0] = indicator.Render("↑") + " " + lines[0]
	}
	if endIdx < total && len(lines) > 0 {
		last := len(lines) - 1
		lines[last] = indicator.Render("↓") + " " + lines[last]
	}

	return strings.Join(lines, "\n")
}

// emptyState renders a dim placeholder message
func (tv *TreeView) emptyState(message string) string {
	width := tv.Width - 2
	if width < 1 {
		width = 1
	}
	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Width(width).
		Align(lipgloss.Center)

	return style.Render(message)
}

// findNodeIndex finds the index of a node in the visible list
func (tv *TreeView) findNodeIndex(nodes []*models.TreeNode, target *models.TreeNode) int {
	for i, node := range nodes {
		if node == target {
			return i
		}
	}
	return -1
}

// GetCurrentNode returns the node under the cursor
func (tv *TreeView) GetCurrentNode() *models.TreeNode {
	visibleNodes := tv.VisibleNodes()
	if tv.CursorIndex < 0 || tv.CursorIndex >= len(visibleNodes) {
		return nil
	}
	return visibleNodes[tv.CursorIndex]
}

// SetCursorToNode sets the cursor to a specific node (by ID)
func (tv *TreeView) SetCursorToNode(nodeID string) bool {
	for i, node := range tv.VisibleNodes() {
		if node.ID == nodeID {
			tv.CursorIndex = i
			return true
		}
	}
	return false
}
