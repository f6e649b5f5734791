package domain

// EventKind classifies a normalized inbound message.
type EventKind string

const (
	KindText     EventKind = "text"
	KindButton   EventKind = "button"
	KindList     EventKind = "list"
	KindImage    EventKind = "image"
	KindDocument EventKind = "document"
	KindLocation EventKind = "location"
	KindUnknown  EventKind = "unknown"
)

// InboundEvent is the canonical form of one inbound message. It is
// ephemeral: only SourceID outlives the request, as the dedup ledger key.
type InboundEvent struct {
	SourceID string
	From     string
	Kind     EventKind

	// Kind-specific payload. Text carries the message body for KindText.
	// Action carries the reply id for button and list selections; ItemID
	// carries the list row id. MediaID references uploaded binary content
	// held by the platform, resolved later by collaborators.
	Text    string
	Action  string
	ItemID  string
	MediaID string
	Lat     float64
	Lng     float64
}
