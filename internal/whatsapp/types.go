// Package whatsapp implements the WhatsApp Cloud API wire format: webhook
// envelope parsing, signature verification and outbound message sends.
package whatsapp

// WebhookPayload is the top-level webhook delivery envelope.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message data for one change.
type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata about the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is a WhatsApp contact.
type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile has the display name.
type ContactProfile struct {
	Name string `json:"name"`
}

// Message represents one incoming message inside the envelope.
type Message struct {
	From        string           `json:"from"`
	ID          string           `json:"id"`
	Timestamp   string           `json:"timestamp"`
	Type        string           `json:"type"`
	Text        *TextContent     `json:"text,omitempty"`
	Interactive *Interactive     `json:"interactive,omitempty"`
	Image       *MediaContent    `json:"image,omitempty"`
	Document    *MediaContent    `json:"document,omitempty"`
	Location    *LocationContent `json:"location,omitempty"`
}

// TextContent holds a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// Interactive holds a button or list reply.
type Interactive struct {
	Type        string     `json:"type"`
	ButtonReply *ReplyItem `json:"button_reply,omitempty"`
	ListReply   *ReplyItem `json:"list_reply,omitempty"`
}

// ReplyItem is the selected button or list row.
type ReplyItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// MediaContent references uploaded binary content by platform media id.
type MediaContent struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// LocationContent is a shared coordinate pair.
type LocationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Status represents a message delivery status update.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// Outbound request shapes.

type sendRequest struct {
	MessagingProduct string            `json:"messaging_product"`
	RecipientType    string            `json:"recipient_type"`
	To               string            `json:"to"`
	Type             string            `json:"type"`
	Text             *TextContent      `json:"text,omitempty"`
	Interactive      *sendInteractive  `json:"interactive,omitempty"`
	Document         *sendDocument     `json:"document,omitempty"`
}

type sendInteractive struct {
	Type   string      `json:"type"`
	Body   sendBody    `json:"body"`
	Action *sendAction `json:"action,omitempty"`
}

type sendBody struct {
	Text string `json:"text"`
}

type sendAction struct {
	Buttons  []sendButton  `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []sendSection `json:"sections,omitempty"`
}

type sendButton struct {
	Type  string          `json:"type"`
	Reply sendButtonReply `json:"reply"`
}

type sendButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type sendSection struct {
	Title string        `json:"title,omitempty"`
	Rows  []sendListRow `json:"rows"`
}

type sendListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type sendDocument struct {
	Link     string `json:"link"`
	Filename string `json:"filename,omitempty"`
	Caption  string `json:"caption,omitempty"`
}
