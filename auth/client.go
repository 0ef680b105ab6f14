package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Client talks to the session-acquisition endpoints of the auth backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an auth client for the given auth base URL
// (e.g. "http://127.0.0.1:8000/auth").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// loginResponse is the JSON shape shared by the login endpoints.
type loginResponse struct {
	User    *User  `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges username/password credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body, status, err := c.post(ctx, "/login/", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s", errorMessage(body, "login failed"))
	}
	return sessionFromLogin(body, User{Username: username})
}

// LoginWithGoogle exchanges a Google ID token for a session.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	body, status, err := c.post(ctx, "/google/", map[string]string{"token": idToken})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%s", errorMessage(body, "Google sign-in failed"))
	}
	return sessionFromLogin(body, User{})
}

// Register creates an account and returns the server's confirmation message.
// Registration does not sign the user in.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body, status, err := c.post(ctx, "/register/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("%s", errorMessage(body, "registration failed"))
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil
	}
	return resp.Message, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (body []byte, status int, err error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func sessionFromLogin(body []byte, fallbackUser User) (*Session, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if resp.Access == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	user := fallbackUser
	if resp.User != nil {
		user = *resp.User
	}
	return &Session{Token: resp.Access, RefreshToken: resp.Refresh, User: user}, nil
}

// errorMessage digs a human-readable message out of an error response body.
// Backends answer with several shapes: a bare string, {"error": ...},
// {"message": ...}, or a field-validation map whose values are strings or
// string arrays. The first form that matches wins.
func errorMessage(body []byte, fallback string) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	switch v := payload.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if s, ok := v["error"].(string); ok && s != "" {
			return s
		}
		if s, ok := v["message"].(string); ok && s != "" {
			return s
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch field := v[k].(type) {
			case []any:
				if len(field) > 0 {
					if s, ok := field[0].(string); ok && s != "" {
						return s
					}
				}
			case string:
				if field != "" {
					return field
				}
			}
		}
	}
	return fallback
}
