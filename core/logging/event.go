package logging

import "time"

// EventKind identifies a lifecycle change on a Log.
type EventKind int

const (
	EventLogCreated EventKind = iota + 1
	EventListenerAdded
	EventListenerRemoved
	EventSinkAdded
	EventSinkRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventLogCreated:
		return "log_created"
	case EventListenerAdded:
		return "listener_added"
	case EventListenerRemoved:
		return "listener_removed"
	case EventSinkAdded:
		return "sink_added"
	case EventSinkRemoved:
		return "sink_removed"
	default:
		return "unknown"
	}
}

// Event is published on the bus passed with WithEvents.
type Event struct {
	Kind   EventKind
	Log    string
	Target string
	Time   time.Time
}
