package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akagera/motobot/internal/domain"
)

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// Client sends messages through the Cloud API message-send endpoint.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	client        *http.Client
}

// NewClient creates an outbound client with a bounded request timeout.
func NewClient(token, phoneNumberID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:       defaultBaseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		client:        &http.Client{Timeout: timeout},
	}
}

// Send translates an outbound action into the matching platform call.
func (c *Client) Send(ctx context.Context, a domain.OutboundAction) error {
	req := sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               a.To,
	}

	switch a.Kind {
	case domain.ActionText:
		req.Type = "text"
		req.Text = &TextContent{Body: a.Body}

	case domain.ActionButtons:
		req.Type = "interactive"
		buttons := make([]sendButton, 0, len(a.Buttons))
		for _, b := range a.Buttons {
			buttons = append(buttons, sendButton{
				Type:  "reply",
				Reply: sendButtonReply{ID: b.ID, Title: b.Title},
			})
		}
		req.Interactive = &sendInteractive{
			Type:   "button",
			Body:   sendBody{Text: a.Body},
			Action: &sendAction{Buttons: buttons},
		}

	case domain.ActionList:
		req.Type = "interactive"
		sections := make([]sendSection, 0, len(a.Sections))
		for _, s := range a.Sections {
			rows := make([]sendListRow, 0, len(s.Rows))
			for _, r := range s.Rows {
				rows = append(rows, sendListRow{ID: r.ID, Title: r.Title, Description: r.Description})
			}
			sections = append(sections, sendSection{Title: s.Title, Rows: rows})
		}
		req.Interactive = &sendInteractive{
			Type:   "list",
			Body:   sendBody{Text: a.Body},
			Action: &sendAction{Button: "Choose", Sections: sections},
		}

	case domain.ActionDocument:
		req.Type = "document"
		req.Document = &sendDocument{Link: a.DocURL, Filename: a.Filename, Caption: a.Caption}

	default:
		return fmt.Errorf("unsupported action kind: %s", a.Kind)
	}

	return c.post(ctx, req)
}

func (c *Client) post(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do with a close error here

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("message send failed: %s body=%s", resp.Status, respBody)
	}
	return nil
}
