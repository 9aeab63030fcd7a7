package models

// SelectionState is the state of the table selection
type SelectionState int

const (
	SelectionIdle SelectionState = iota
	SelectionSelected
)

func (s SelectionState) String() string {
	if s == SelectionSelected {
		return "selected"
	}
	return "idle"
}

// Selection tracks which table leaf is active. At most one leaf is active at
// any time. It is driven by a single input stream and is not safe for
// concurrent use.
type Selection struct {
	active *TreeNode
}

// NewSelection creates an idle selection
func NewSelection() *Selection {
	return &Selection{}
}

// State returns the current state
func (s *Selection) State() SelectionState {
	if s.active == nil {
		return SelectionIdle
	}
	return SelectionSelected
}

// Active returns the active leaf, or nil when idle
func (s *Selection) Active() *TreeNode {
	return s.active
}

// Table returns the active table, or nil when idle
func (s *Selection) Table() *TableDescriptor {
	if s.active == nil {
		return nil
	}
	return s.active.Table
}

// Select activates node and returns the resulting events in order.
//
// A previously active leaf is always deselected first, even when node is that
// same leaf, so re-selecting a table yields Deselected followed by
// SelectionChanged and the table gets sampled again. Activating the root or
// the group node only deselects.
func (s *Selection) Select(node *TreeNode) []Event {
	if node == nil {
		return nil
	}

	var events []Event
	if prev := s.active; prev != nil {
		prev.Active = false
		s.active = nil
		events = append(events, Deselected(prev.Table))
	}

	if node.IsTableLeaf() {
		node.Active = true
		s.active = node
		events = append(events, SelectionChanged(node.Table))
	}

	return events
}
