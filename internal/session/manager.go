// Package session owns the authentication lifecycle: restoring a persisted
// token on startup, logging in and out, and keeping the persisted state in
// sync with the in-memory one.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Soham2411/flowtrack/internal/api"
	"github.com/Soham2411/flowtrack/internal/core"
	applog "github.com/Soham2411/flowtrack/internal/log"
)

type State int

const (
	Uninitialized State = iota
	Validating
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// API is the slice of the remote client the manager needs. The categories
// endpoint doubles as the token-validation probe: it is known to exist and
// requires authentication.
type API interface {
	Login(ctx context.Context, username, password string) (api.Credentials, error)
	Register(ctx context.Context, r api.Registration) (api.Credentials, error)
	Categories(ctx context.Context) ([]core.Category, error)
	SetToken(token string)
	ClearToken()
}

type Manager struct {
	api      API
	store    Store
	log      *applog.Logger
	state    State
	username string
}

func NewManager(a API, store Store, logger *applog.Logger) *Manager {
	return &Manager{
		api:   a,
		store: store,
		log:   logger.WithComponent("session"),
		state: Uninitialized,
	}
}

func (m *Manager) State() State     { return m.state }
func (m *Manager) Username() string { return m.username }

// Restore validates any persisted session. A token whose JWT exp claim is
// already past is cleared without a network call; otherwise one probe
// request decides. Any failure lands in Anonymous with the store cleared.
func (m *Manager) Restore(ctx context.Context) State {
	m.state = Validating

	creds, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("failed to load persisted session", "error", err)
		return m.toAnonymous(ctx)
	}
	if creds.IsZero() {
		return m.toAnonymous(ctx)
	}

	if tokenExpired(creds.Token, time.Now()) {
		m.log.Info("persisted token expired, clearing session")
		return m.toAnonymous(ctx)
	}

	m.api.SetToken(creds.Token)
	if _, err := m.api.Categories(ctx); err != nil {
		m.log.Info("token validation failed, clearing session", "error", err)
		return m.toAnonymous(ctx)
	}

	m.username = creds.Username
	m.state = Authenticated
	m.log.Info("session restored", "username", creds.Username)
	return m.state
}

// Login authenticates against the remote service and persists the session
// on success. On failure nothing is persisted and the returned error
// carries the server's message.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	creds, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return m.adopt(ctx, creds)
}

// Register creates an account and starts a session like Login. The
// password confirmation is checked before any network call.
func (m *Manager) Register(ctx context.Context, username, email, password, confirm string) error {
	if password != confirm {
		return &api.AuthError{Message: "Passwords do not match"}
	}
	creds, err := m.api.Register(ctx, api.Registration{
		Username:        username,
		Email:           email,
		Password:        password,
		PasswordConfirm: confirm,
	})
	if err != nil {
		return err
	}
	return m.adopt(ctx, creds)
}

// Logout clears in-memory and persisted state unconditionally. Store
// failures are logged, never surfaced.
func (m *Manager) Logout(ctx context.Context) {
	m.toAnonymous(ctx)
	m.log.Info("logged out")
}

func (m *Manager) adopt(ctx context.Context, creds api.Credentials) error {
	m.api.SetToken(creds.Token)
	m.username = creds.Username
	m.state = Authenticated

	if err := m.store.Save(ctx, Credentials(creds)); err != nil {
		// The live session works either way; it just won't survive restart.
		m.log.Warn("failed to persist session", "error", err)
	}
	m.log.Info("authenticated", "username", creds.Username)
	return nil
}

func (m *Manager) toAnonymous(ctx context.Context) State {
	m.api.ClearToken()
	m.username = ""
	m.state = Anonymous
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("failed to clear persisted session", "error", err)
	}
	return m.state
}

// tokenExpired inspects the JWT exp claim without verifying the signature;
// verification is the server's job, this is only a cheap local pre-check.
// Tokens that don't parse or carry no exp claim are left to the probe.
func tokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
