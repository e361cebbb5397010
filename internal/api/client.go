// Package api is the HTTP client for the kanban backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kanny/internal/credentials"
	"kanny/internal/errmsg"
)

// Error is a failed request. Status is 0 when no response arrived.
type Error struct {
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Client calls the backend on behalf of whoever holds the stored
// credentials.
type Client struct {
	baseURL string
	http    *http.Client
	store   credentials.Store
	jar     *tokenJar
	logger  *slog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:3001/api.
func New(baseURL string, store credentials.Store, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := newTokenJar(store, c.logger)
	if err != nil {
		return nil, err
	}
	c.jar = jar
	c.http.Jar = jar
	return c, nil
}

// SetAccessToken stores the bearer token sent with every later request.
func (c *Client) SetAccessToken(token string) error {
	creds, err := c.store.Load()
	if err != nil {
		return err
	}
	creds.AccessToken = token
	return c.store.Save(creds)
}

// AccessToken returns the stored bearer token, if any.
func (c *Client) AccessToken() string {
	creds, err := c.store.Load()
	if err != nil {
		c.logger.Warn("reading credentials", "error", err)
		return ""
	}
	return creds.AccessToken
}

// ClearSession forgets the access token and the refresh cookie locally.
func (c *Client) ClearSession() error {
	if err := c.jar.reset(); err != nil {
		return err
	}
	return c.store.Clear()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	creds, err := c.store.Load()
	if err != nil {
		c.logger.Warn("reading credentials", "error", err)
	} else if creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return &Error{Message: errmsg.Unreachable, Status: 0, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("reading response", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return &Error{Message: fmt.Sprintf("Request failed with status %d", resp.StatusCode), Status: resp.StatusCode, Err: err}
	}
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Message: errorMessage(data, resp.StatusCode), Status: resp.StatusCode}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Message: "Unexpected response from server", Status: resp.StatusCode, Err: err}
	}
	return nil
}

// errorMessage pulls the human part out of an error body.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}
