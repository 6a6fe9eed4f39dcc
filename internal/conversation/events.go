package conversation

// EventKind identifies what an Event carries.
type EventKind int

const (
	// EventMessage: a message was appended to the log. Event.Message is set.
	EventMessage EventKind = iota
	// EventTyping: a persona turn is in flight. Event.Speaker is set.
	EventTyping
	// EventTypingDone: the in-flight turn appended or failed. Event.Speaker
	// is set.
	EventTypingDone
	// EventNotice: a transient user-facing notice (the toast analogue).
	// Event.Notice is set.
	EventNotice
	// EventPause: the paused state changed. Event.Paused is set.
	EventPause
)

// Event carries state changes from the Engine to the UI.
type Event struct {
	Kind    EventKind
	Message Message
	Speaker string
	Notice  string
	Paused  bool
}
