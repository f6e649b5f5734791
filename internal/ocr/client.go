// Package ocr calls the external document extraction service.
package ocr

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

// Client talks to the OCR extraction endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an OCR client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	MediaID string `json:"media_id"`
}

// Extract resolves a platform media id into structured vehicle fields.
func (c *Client) Extract(ctx context.Context, mediaID string) (domain.VehicleFields, error) {
	var fields domain.VehicleFields

	b, err := json.Marshal(extractRequest{MediaID: mediaID})
	if err != nil {
		return fields, fmt.Errorf("encode extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(b))
	if err != nil {
		return fields, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fields, fmt.Errorf("ocr extract: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do with a close error here

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fields, fmt.Errorf("ocr extract failed: %s body=%s", resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return fields, fmt.Errorf("decode extract response: %w", err)
	}
	if fields.Plate == "" {
		return fields, fmt.Errorf("ocr extract returned no plate")
	}
	return fields, nil
}
