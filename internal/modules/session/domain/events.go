package domain

import "time"

// EventKind is the direction of a session change.
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// EventSource records which trigger observed the change.
type EventSource string

const (
	// SourceBroadcast is a same-process notification emitted right after a write or clear.
	SourceBroadcast EventSource = "broadcast"
	// SourceStorage is a change made by another process and seen through the store.
	SourceStorage EventSource = "storage"
	// SourceRecheck is a periodic re-check that found the store out of step.
	SourceRecheck EventSource = "recheck"
	// SourceNavigation is a re-check performed while evaluating a navigation.
	SourceNavigation EventSource = "navigation"
	// SourceRemote is an event relayed by the message broker.
	SourceRemote EventSource = "remote"
)

// Event is delivered to every synchronizer subscriber.
type Event struct {
	Variant   Variant     `json:"variant"`
	Kind      EventKind   `json:"kind"`
	Source    EventSource `json:"source"`
	Origin    string      `json:"origin"`
	Timestamp time.Time   `json:"timestamp"`
}

// Topic is the websocket topic for the event, e.g. "session.login".
func (e Event) Topic() string {
	return "session." + string(e.Kind)
}

// KindFor maps session presence to the event that leads to it.
func KindFor(present bool) EventKind {
	if present {
		return EventLogin
	}
	return EventLogout
}
