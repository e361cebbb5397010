package api

import (
	"context"
	"net/http"
	"net/url"
)

// resource joins escaped path segments.
func resource(parts ...string) string {
	var p string
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FederatedLogin exchanges an identity provider ID token for a session.
func (c *Client) FederatedLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/firebase", map[string]string{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// RefreshToken trades the refresh cookie for a new access token.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Boards(ctx context.Context) ([]BoardSummary, error) {
	var out []BoardSummary
	if err := c.do(ctx, http.MethodGet, "/boards", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBoard(ctx context.Context, name string) (*BoardSummary, error) {
	var out BoardSummary
	if err := c.do(ctx, http.MethodPost, "/boards", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Board(ctx context.Context, id string) (*Board, error) {
	var out Board
	if err := c.do(ctx, http.MethodGet, resource("boards", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentBoard returns the user's default board; the backend creates one on
// first use.
func (c *Client) CurrentBoard(ctx context.Context) (*Board, error) {
	var out Board
	if err := c.do(ctx, http.MethodGet, "/boards/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBoard(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, resource("boards", id), map[string]string{"name": name}, nil)
}

func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resource("boards", id), nil, nil)
}

func (c *Client) CreateColumn(ctx context.Context, boardID, name string) (*Column, error) {
	var out Column
	if err := c.do(ctx, http.MethodPost, resource("boards", boardID, "columns"), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateColumn(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, resource("boards", "columns", id), map[string]string{"name": name}, nil)
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resource("boards", "columns", id), nil, nil)
}

type cardBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// CreateCard appends a card to a column. A nil description is left out of
// the request.
func (c *Client) CreateCard(ctx context.Context, columnID, title string, description *string) (*Card, error) {
	var out Card
	if err := c.do(ctx, http.MethodPost, resource("columns", columnID, "cards"), cardBody{title, description}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCard(ctx context.Context, id, title string, description *string) error {
	return c.do(ctx, http.MethodPut, resource("cards", id), cardBody{title, description}, nil)
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resource("cards", id), nil, nil)
}

// MoveCard places a card at position within columnID.
func (c *Client) MoveCard(ctx context.Context, id, columnID string, position int) error {
	body := map[string]any{"columnId": columnID, "position": position}
	return c.do(ctx, http.MethodPut, resource("cards", id, "move"), body, nil)
}
