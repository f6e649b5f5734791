package whatsapp

import (
	"testing"

	"github.com/akagera/motobot/internal/domain"
)

func envelope(messages string) []byte {
	return []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "250780000000", "phone_number_id": "1111"},
					"messages": [` + messages + `]
				}
			}]
		}]
	}`)
}

func TestNormalizeText(t *testing.T) {
	events, err := Normalize(envelope(`{"from":"250788123456","id":"wamid.A","type":"text","text":{"body":"hello"}}`))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.Kind != domain.KindText || ev.Text != "hello" || ev.From != "250788123456" || ev.SourceID != "wamid.A" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestNormalizeButtonReply(t *testing.T) {
	events, err := Normalize(envelope(`{"from":"250788123456","id":"wamid.B","type":"interactive",
		"interactive":{"type":"button_reply","button_reply":{"id":"INSURANCE","title":"Insurance"}}}`))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if events[0].Kind != domain.KindButton || events[0].Action != "INSURANCE" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestNormalizeListReply(t *testing.T) {
	events, err := Normalize(envelope(`{"from":"250788123456","id":"wamid.C","type":"interactive",
		"interactive":{"type":"list_reply","list_reply":{"id":"p1","title":"Garage One"}}}`))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if events[0].Kind != domain.KindList || events[0].Action != "p1" || events[0].ItemID != "p1" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestNormalizeMediaAndLocation(t *testing.T) {
	events, err := Normalize(envelope(`
		{"from":"250788123456","id":"wamid.D","type":"image","image":{"id":"media-9","mime_type":"image/jpeg"}},
		{"from":"250788123456","id":"wamid.E","type":"document","document":{"id":"media-10","filename":"carte.pdf"}},
		{"from":"250788123456","id":"wamid.F","type":"location","location":{"latitude":-1.9441,"longitude":30.0619}}`))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Kind != domain.KindImage || events[0].MediaID != "media-9" {
		t.Errorf("image event wrong: %+v", events[0])
	}
	if events[1].Kind != domain.KindDocument || events[1].MediaID != "media-10" {
		t.Errorf("document event wrong: %+v", events[1])
	}
	if events[2].Kind != domain.KindLocation || events[2].Lat != -1.9441 || events[2].Lng != 30.0619 {
		t.Errorf("location event wrong: %+v", events[2])
	}
}

func TestNormalizeUnknownTypeFallsBack(t *testing.T) {
	events, err := Normalize(envelope(`{"from":"250788123456","id":"wamid.G","type":"sticker"}`))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if events[0].Kind != domain.KindUnknown {
		t.Errorf("expected unknown kind, got %s", events[0].Kind)
	}
}

func TestNormalizeStatusOnlyDelivery(t *testing.T) {
	body := []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{"id": "entry-1", "changes": [{"field": "messages", "value": {
			"messaging_product": "whatsapp",
			"metadata": {"display_phone_number": "250780000000", "phone_number_id": "1111"},
			"statuses": [{"id": "wamid.H", "status": "delivered", "recipient_id": "250788123456"}]
		}}]}]
	}`)

	events, err := Normalize(body)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("status-only delivery produced %d events", len(events))
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte(`not json at all`)); err == nil {
		t.Error("garbage payload parsed without error")
	}
}
