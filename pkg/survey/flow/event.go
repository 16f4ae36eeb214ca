package flow

import "survey-bot-be/pkg/store"

// EventKind classifies one inbound unit of conversation input.
type EventKind string

const (
	EventStart    EventKind = "START"
	EventChoice   EventKind = "CHOICE"
	EventPhoto    EventKind = "PHOTO"
	EventLocation EventKind = "LOCATION"
	EventText     EventKind = "TEXT"
)

// Event is one inbound unit of work, always scoped to a single session.
// Delivery is at-least-once and only loosely ordered; the engine's
// idempotency guards absorb replays.
type Event struct {
	SessionID string
	ChatID    int64
	Kind      EventKind

	Token    string // set for EventChoice
	Text     string // set for EventText
	FileID   string // set for EventPhoto
	Location *store.LatLng
}
