// Package nearby calls the external nearby-resources lookup service.
package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akagera/motobot/internal/domain"
)

// Client talks to the nearby-resources lookup endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a lookup client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Places []domain.Place `json:"places"`
}

// Search returns places of the given kind near a free-text location.
func (c *Client) Search(ctx context.Context, kind, location string) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("kind", kind)
	q.Set("near", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing to do with a close error here

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("nearby search failed: %s body=%s", resp.Status, body)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return out.Places, nil
}
