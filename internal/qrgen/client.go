// Package qrgen calls the external QR image generation service.
package qrgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the QR image generator.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a generator client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Payload string `json:"payload"`
}

type generateResponse struct {
	URL string `json:"url"`
}

// Generate renders the dial string as a QR image and returns its URL.
func (c *Client) Generate(ctx context.Context, payload string) (string, error) {
	b, err := json.Marshal(generateRequest{Payload: payload})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("qr generate: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do with a close error here

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("qr generate failed: %s body=%s", resp.Status, body)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("qr generate returned no url")
	}
	return out.URL, nil
}
