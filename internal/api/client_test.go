package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"tok-123","refresh":"ref","user":{"username":"alice"}}`))
	}))

	creds, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", creds.Token)
	assert.Equal(t, "alice", creds.Username)
}

func TestClient_LoginBadCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestClient_RegisterFieldErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"password_confirm":["Passwords do not match."],"email":["Enter a valid email address."]}`))
	}))

	_, err := c.Register(context.Background(), Registration{Username: "a", Email: "nope"})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, "email: Enter a valid email address.. password confirm: Passwords do not match.", err.Error())
}

func TestClient_BearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	c.SetToken("tok-456")

	_, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-456", gotAuth)

	c.ClearToken()
	_, err = c.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_Transactions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"amount":"100.00","type":"income","description":"pay","category":2,"category_name":"Salary","category_color":"#27ae60","date":"2024-01-15","created_at":"2024-01-15T09:00:00Z"},
			{"id":2,"amount":"40.50","type":"expense","description":"groceries","category":1,"category_name":"Food","category_color":"#e74c3c","date":"2024-01-20","created_at":"2024-01-20T18:30:00Z"}
		]`))
	}))

	txs, err := c.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Salary", txs[0].CategoryName)
	assert.Equal(t, "40.5", txs[1].Amount.String())
}

func TestClient_TransactionsMalformedType(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"amount":"5.00","type":"voucher","description":"x","category":1,"category_name":"Food","category_color":"#fff","date":"2024-01-01"}]`))
	}))

	_, err := c.Transactions(context.Background())
	require.Error(t, err, "unknown transaction types are rejected at decode time")
}

func TestClient_DeleteTransaction(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteTransaction(context.Background(), 42))
	assert.Equal(t, "/transactions/42/", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_ServerErrorIsNetworkError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Transactions(context.Background())
	require.Error(t, err)
	assert.False(t, IsAuthError(err))
	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
}

func TestClient_ConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	_, err := c.Categories(context.Background())
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}
