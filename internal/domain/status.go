package domain

// EventStatus represents the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// eventTransitions is the closed transition table. Cancelled and completed
// are terminal.
var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
	EventStatusPublished: {EventStatusCancelled, EventStatusCompleted},
	EventStatusCancelled: {},
	EventStatusCompleted: {},
}

// IsValid checks if the status is a known lifecycle state.
func (s EventStatus) IsValid() bool {
	_, ok := eventTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table permits moving to the
// target status.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, next := range eventTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s EventStatus) IsTerminal() bool {
	return len(eventTransitions[s]) == 0 && s.IsValid()
}

// String returns the string representation of the status.
func (s EventStatus) String() string {
	return string(s)
}
