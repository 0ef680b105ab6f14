package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pikacards/storefront/auth"
	"github.com/pikacards/storefront/remote"
)

// Client fetches the order-history resource.
type Client struct {
	baseURL string
	tokens  remote.TokenSource
	http    *http.Client
}

// NewClient creates a history client for the given API base URL
// (e.g. "http://127.0.0.1:8000/api").
func NewClient(baseURL string, tokens remote.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Orders fetches the order history. A 401 is reported as
// auth.ErrSessionExpired; a non-JSON error body becomes the error text.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, auth.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			var payload struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
				return nil, fmt.Errorf("%s", payload.Error)
			}
		}
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return nil, fmt.Errorf("fetching history: %s", msg)
		}
		return nil, fmt.Errorf("fetching history: status %d", resp.StatusCode)
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return orders, nil
}
