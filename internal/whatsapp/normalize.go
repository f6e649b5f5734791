package whatsapp

import (
	"encoding/json"
	"fmt"

	"github.com/akagera/motobot/internal/domain"
)

// Normalize parses a verified webhook body into canonical inbound events.
// One delivery may batch several messages; status-only deliveries yield
// an empty slice. Unsupported message types normalize to KindUnknown so
// the dispatcher can answer with a fallback instead of failing.
func Normalize(body []byte) ([]domain.InboundEvent, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	var events []domain.InboundEvent
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				events = append(events, normalizeMessage(msg))
			}
		}
	}
	return events, nil
}

func normalizeMessage(msg Message) domain.InboundEvent {
	ev := domain.InboundEvent{
		SourceID: msg.ID,
		From:     msg.From,
	}

	switch msg.Type {
	case "text":
		ev.Kind = domain.KindText
		if msg.Text != nil {
			ev.Text = msg.Text.Body
		}
	case "interactive":
		normalizeInteractive(msg.Interactive, &ev)
	case "image":
		ev.Kind = domain.KindImage
		if msg.Image != nil {
			ev.MediaID = msg.Image.ID
		}
	case "document":
		ev.Kind = domain.KindDocument
		if msg.Document != nil {
			ev.MediaID = msg.Document.ID
		}
	case "location":
		ev.Kind = domain.KindLocation
		if msg.Location != nil {
			ev.Lat = msg.Location.Latitude
			ev.Lng = msg.Location.Longitude
		}
	default:
		ev.Kind = domain.KindUnknown
	}
	return ev
}

func normalizeInteractive(in *Interactive, ev *domain.InboundEvent) {
	if in == nil {
		ev.Kind = domain.KindUnknown
		return
	}
	switch {
	case in.ButtonReply != nil:
		ev.Kind = domain.KindButton
		ev.Action = in.ButtonReply.ID
	case in.ListReply != nil:
		ev.Kind = domain.KindList
		ev.Action = in.ListReply.ID
		ev.ItemID = in.ListReply.ID
	default:
		ev.Kind = domain.KindUnknown
	}
}
