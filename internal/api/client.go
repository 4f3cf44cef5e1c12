// Package api implements the HTTP client for the remote FlowTrack service.
// The client is an explicit object: the bearer token for the current
// session lives on it and is injected into each request, so there is no
// ambient global auth state anywhere in the program.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Soham2411/flowtrack/internal/core"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

// Credentials is the successful result of login or register.
type Credentials struct {
	Token    string
	Username string
}

// Registration is the payload for the register endpoint. The API also
// accepts first/last name; the client always sends them empty.
type Registration struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// NewTransaction is the create payload; the server fills in id, category
// denormalizations, and timestamps.
type NewTransaction struct {
	Amount      string      `json:"amount"`
	Description string      `json:"description"`
	Type        core.TxType `json:"type"`
	Category    int64       `json:"category"`
	Date        core.Date   `json:"date"`
}

type NewCategory struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        core.TxType `json:"type"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.token = "" }

// Login exchanges credentials for a token. A 400/401 response becomes an
// *AuthError carrying the server's message; anything else that goes wrong
// is a *NetworkError.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	body := map[string]string{"username": username, "password": password}

	var resp struct {
		Access string `json:"access"`
		User   struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", body, &resp); err != nil {
		return Credentials{}, err
	}

	name := resp.User.Username
	if name == "" {
		name = username
	}
	return Credentials{Token: resp.Access, Username: name}, nil
}

// Register creates an account and, like Login, returns a live session.
func (c *Client) Register(ctx context.Context, r Registration) (Credentials, error) {
	body := map[string]string{
		"username":         r.Username,
		"email":            r.Email,
		"password":         r.Password,
		"password_confirm": r.PasswordConfirm,
		"first_name":       "",
		"last_name":        "",
	}

	var resp struct {
		Access string `json:"access"`
		User   struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register/", body, &resp); err != nil {
		return Credentials{}, err
	}

	name := resp.User.Username
	if name == "" {
		name = r.Username
	}
	return Credentials{Token: resp.Access, Username: name}, nil
}

func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, nc NewCategory) (core.Category, error) {
	var out core.Category
	if err := c.do(ctx, http.MethodPost, "/categories/", nc, &out); err != nil {
		return core.Category{}, err
	}
	return out, nil
}

func (c *Client) Transactions(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, nt NewTransaction) (core.Transaction, error) {
	var out core.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/", nt, &out); err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d/", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: authMessage(raw)}
	default:
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}

// authMessage extracts a readable message from an auth failure body. The
// server responds either with {"detail": "..."} / {"error": "..."} or with
// a field->messages validation map.
func authMessage(raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload) == 0 {
		return "authentication failed"
	}
	if detail, ok := payload["detail"].(string); ok {
		return detail
	}
	if msg, ok := payload["error"].(string); ok {
		return msg
	}
	return fieldErrorMessage(payload)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
