// Package remote talks to the backend cart resource and propagates local
// cart mutations to it on a best-effort basis.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pikacards/storefront/auth"
	"github.com/shopspring/decimal"
)

// TokenSource supplies the current bearer token. ok is false when no usable
// session exists; requests are then sent unauthenticated and the backend's
// 401 is handled like any other failure.
type TokenSource interface {
	Token() (token string, ok bool)
}

// Line is one row of the remote cart. Remote line IDs are assigned by the
// backend and do not coincide with local card IDs; the card name is the only
// correlation key shared by both sides.
type Line struct {
	ID       int64  `json:"id"`
	CardName string `json:"card_name"`
	Quantity int    `json:"quantity,omitempty"`
}

// CheckoutItem is one cart line as submitted to the payment-session endpoint.
type CheckoutItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Client is the HTTP client for the remote cart resource.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewClient creates a remote cart client for the given API base URL
// (e.g. "http://127.0.0.1:8000/api").
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Add appends one unit of the card to the remote cart.
func (c *Client) Add(ctx context.Context, cardID string) error {
	payload, err := json.Marshal(map[string]string{"card_id": cardID})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, "/cart/add/", payload)
	if err != nil {
		return fmt.Errorf("remote cart add: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote cart add: status %d", resp.StatusCode)
	}
	return nil
}

// Lines fetches the current remote cart.
func (c *Client) Lines(ctx context.Context) ([]Line, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cart/", nil)
	if err != nil {
		return nil, fmt.Errorf("remote cart fetch: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote cart fetch: status %d", resp.StatusCode)
	}
	var lines []Line
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		return nil, fmt.Errorf("remote cart fetch: %w", err)
	}
	return lines, nil
}

// RemoveLine deletes one remote cart line by its backend-assigned ID.
func (c *Client) RemoveLine(ctx context.Context, lineID int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/remove/%d/", lineID), nil)
	if err != nil {
		return fmt.Errorf("remote cart remove: %w", err)
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote cart remove: status %d", resp.StatusCode)
	}
	return nil
}

// CreateSession asks the backend for a payment session over the submitted
// cart and returns the external payment page URL. A 401 is reported as
// auth.ErrSessionExpired; other failures surface the server-provided error
// text when the body parses as the expected shape, or the raw body otherwise.
func (c *Client) CreateSession(ctx context.Context, items []CheckoutItem) (string, error) {
	payload, err := json.Marshal(map[string]any{"cart": items})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, "/cart/checkout/", payload)
	if err != nil {
		return "", fmt.Errorf("creating payment session: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("creating payment session: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", auth.ErrSessionExpired
	}

	var result struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		// Not the expected shape: the raw body is the error message.
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return "", fmt.Errorf("creating payment session: %s", msg)
		}
		return "", fmt.Errorf("creating payment session: status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.Error != "" {
			return "", fmt.Errorf("%s", result.Error)
		}
		return "", fmt.Errorf("creating payment session: status %d", resp.StatusCode)
	}
	if result.URL == "" {
		return "", fmt.Errorf("payment session response carried no url")
	}
	return result.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
