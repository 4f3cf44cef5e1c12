package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Soham2411/flowtrack/internal/api"
	"github.com/Soham2411/flowtrack/internal/core"
	applog "github.com/Soham2411/flowtrack/internal/log"
)

type fakeAPI struct {
	token        string
	loginCreds   api.Credentials
	loginErr     error
	registerErr  error
	probeErr     error
	loginCalls   int
	registerCall int
	probeCalls   int
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (api.Credentials, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return api.Credentials{}, f.loginErr
	}
	return f.loginCreds, nil
}

func (f *fakeAPI) Register(ctx context.Context, r api.Registration) (api.Credentials, error) {
	f.registerCall++
	if f.registerErr != nil {
		return api.Credentials{}, f.registerErr
	}
	return api.Credentials{Token: "fresh", Username: r.Username}, nil
}

func (f *fakeAPI) Categories(ctx context.Context) ([]core.Category, error) {
	f.probeCalls++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return []core.Category{}, nil
}

func (f *fakeAPI) SetToken(token string) { f.token = token }
func (f *fakeAPI) ClearToken()           { f.token = "" }

type memStore struct {
	creds   Credentials
	saveErr error
}

func (s *memStore) Load(ctx context.Context) (Credentials, error) { return s.creds, nil }
func (s *memStore) Save(ctx context.Context, c Credentials) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.creds = c
	return nil
}
func (s *memStore) Clear(ctx context.Context) error {
	s.creds = Credentials{}
	return nil
}

func testLogger() *applog.Logger {
	return applog.New(io.Discard, slog.LevelError, "test")
}

// unsignedJWT builds a syntactically valid token with the given exp claim.
func unsignedJWT(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return header + "." + payload + ".sig"
}

func TestManager_RestoreNoPersistedSession(t *testing.T) {
	f := &fakeAPI{}
	m := NewManager(f, &memStore{}, testLogger())

	state := m.Restore(context.Background())
	assert.Equal(t, Anonymous, state)
	assert.Zero(t, f.probeCalls, "no probe without a token")
}

func TestManager_RestoreValidToken(t *testing.T) {
	f := &fakeAPI{}
	store := &memStore{creds: Credentials{Token: unsignedJWT(time.Now().Add(time.Hour)), Username: "alice"}}
	m := NewManager(f, store, testLogger())

	state := m.Restore(context.Background())
	assert.Equal(t, Authenticated, state)
	assert.Equal(t, "alice", m.Username())
	assert.Equal(t, 1, f.probeCalls)
	assert.NotEmpty(t, f.token)
}

func TestManager_RestoreExpiredTokenSkipsProbe(t *testing.T) {
	f := &fakeAPI{}
	store := &memStore{creds: Credentials{Token: unsignedJWT(time.Now().Add(-time.Hour)), Username: "alice"}}
	m := NewManager(f, store, testLogger())

	state := m.Restore(context.Background())
	assert.Equal(t, Anonymous, state)
	assert.Zero(t, f.probeCalls, "expired token must be cleared without a network call")
	assert.True(t, store.creds.IsZero())
}

func TestManager_RestoreProbeFailureClearsStore(t *testing.T) {
	f := &fakeAPI{probeErr: &api.AuthError{Message: "token expired"}}
	store := &memStore{creds: Credentials{Token: unsignedJWT(time.Now().Add(time.Hour)), Username: "alice"}}
	m := NewManager(f, store, testLogger())

	state := m.Restore(context.Background())
	assert.Equal(t, Anonymous, state)
	assert.True(t, store.creds.IsZero())
	assert.Empty(t, f.token)
}

func TestManager_LoginSuccessPersists(t *testing.T) {
	f := &fakeAPI{loginCreds: api.Credentials{Token: "tok", Username: "alice"}}
	store := &memStore{}
	m := NewManager(f, store, testLogger())

	require.NoError(t, m.Login(context.Background(), "alice", "pw"))
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, Credentials{Token: "tok", Username: "alice"}, store.creds)
	assert.Equal(t, "tok", f.token)
}

func TestManager_LoginFailurePersistsNothing(t *testing.T) {
	f := &fakeAPI{loginErr: &api.AuthError{Message: "Invalid credentials"}}
	store := &memStore{}
	m := NewManager(f, store, testLogger())

	err := m.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, store.creds.IsZero())
}

func TestManager_RegisterPasswordMismatch(t *testing.T) {
	f := &fakeAPI{}
	m := NewManager(f, &memStore{}, testLogger())

	err := m.Register(context.Background(), "a", "a@x.com", "p1", "p2")
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.Zero(t, f.registerCall, "mismatch must fail before any network call")
	assert.Zero(t, f.loginCalls)
}

func TestManager_RegisterSuccess(t *testing.T) {
	f := &fakeAPI{}
	store := &memStore{}
	m := NewManager(f, store, testLogger())

	require.NoError(t, m.Register(context.Background(), "bob", "b@x.com", "pw", "pw"))
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, "bob", m.Username())
	assert.Equal(t, "fresh", store.creds.Token)
}

func TestManager_LogoutNeverFails(t *testing.T) {
	f := &fakeAPI{loginCreds: api.Credentials{Token: "tok", Username: "alice"}}
	store := &memStore{}
	m := NewManager(f, store, testLogger())
	require.NoError(t, m.Login(context.Background(), "alice", "pw"))

	m.Logout(context.Background())
	assert.Equal(t, Anonymous, m.State())
	assert.Empty(t, m.Username())
	assert.Empty(t, f.token)
	assert.True(t, store.creds.IsZero())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "future exp", token: unsignedJWT(now.Add(time.Hour)), want: false},
		{name: "past exp", token: unsignedJWT(now.Add(-time.Minute)), want: true},
		{name: "garbage token left to probe", token: "not-a-jwt", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(tt.token, now); got != tt.want {
				t.Errorf("tokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
