package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client looks up cards on the catalog backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given API base URL
// (e.g. "http://127.0.0.1:8000/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Get fetches a single card by ID.
func (c *Client) Get(ctx context.Context, id string) (Card, error) {
	u := fmt.Sprintf("%s/cards/%s/", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Card{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Card{}, fmt.Errorf("fetching card %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return Card{}, fmt.Errorf("fetching card %s: status %d", id, resp.StatusCode)
	}

	var card Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return Card{}, fmt.Errorf("decoding card %s: %w", id, err)
	}
	return card, nil
}
