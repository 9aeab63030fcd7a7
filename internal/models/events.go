package models

// EventKind tags an Event
type EventKind int

const (
	EventSelectionChanged EventKind = iota + 1
	EventDeselected
	EventSampleReady
	EventSampleFailed
)

func (k EventKind) String() string {
	switch k {
	case EventSelectionChanged:
		return "selection-changed"
	case EventDeselected:
		return "deselect"
	case EventSampleReady:
		return "sample-ready"
	case EventSampleFailed:
		return "sample-failed"
	default:
		return "unknown"
	}
}

// Event is what the selection machine and the row sampler emit towards the
// display coordinator. Which fields are set depends on Kind:
//   - EventSelectionChanged, EventDeselected: Table
//   - EventSampleReady: Table, Sample
//   - EventSampleFailed: Table, Err
type Event struct {
	Kind   EventKind
	Table  *TableDescriptor
	Sample *SampleResult
	Err    error
}

// SelectionChanged creates a selection-changed event
func SelectionChanged(table *TableDescriptor) Event {
	return Event{Kind: EventSelectionChanged, Table: table}
}

// Deselected creates a deselect event for the previously active table
func Deselected(table *TableDescriptor) Event {
	return Event{Kind: EventDeselected, Table: table}
}

// SampleReady creates a sample-ready event
func SampleReady(table *TableDescriptor, sample *SampleResult) Event {
	return Event{Kind: EventSampleReady, Table: table, Sample: sample}
}

// SampleFailed creates a sample-failed event
func SampleFailed(table *TableDescriptor, err error) Event {
	return Event{Kind: EventSampleFailed, Table: table, Err: err}
}
