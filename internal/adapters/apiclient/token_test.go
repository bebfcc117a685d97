package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "courtfinder",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func authServer(t *testing.T, tokens <-chan string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client-id", req.ClientID)
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: <-tokens})
	}))
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	tokens := make(chan string, 2)
	tokens <- signedToken(t, time.Now().Add(time.Hour))
	var calls atomic.Int32
	srv := authServer(t, tokens, &calls)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(srv.Client(), srv.URL, "client-id", "client-secret")

	first, err := ts.Token(context.Background())
	require.NoError(t, err)
	second, err := ts.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "a valid token must be served from cache")
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	tokens := make(chan string, 2)
	tokens <- signedToken(t, time.Now().Add(-time.Minute)) // already expired
	tokens <- signedToken(t, time.Now().Add(time.Hour))
	var calls atomic.Int32
	srv := authServer(t, tokens, &calls)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(srv.Client(), srv.URL, "client-id", "client-secret")

	first, err := ts.Token(context.Background())
	require.NoError(t, err)
	second, err := ts.Token(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "expired token must be replaced")
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSourceOpaqueTokenKeptUntilForcedRefresh(t *testing.T) {
	tokens := make(chan string, 2)
	tokens <- "opaque-token-1"
	tokens <- "opaque-token-2"
	var calls atomic.Int32
	srv := authServer(t, tokens, &calls)
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(srv.Client(), srv.URL, "client-id", "client-secret")

	first, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token-1", first)

	// No exp claim to go by, so the cached token keeps being served.
	again, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token-1", again)

	refreshed, err := ts.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token-2", refreshed)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSourceErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ts := NewClientCredentialsTokenSource(srv.Client(), srv.URL, "client-id", "client-secret")
	_, err := ts.Token(context.Background())
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(45 * time.Minute).Truncate(time.Second)
	got := tokenExpiry(signedToken(t, exp))
	assert.True(t, got.Equal(exp), "got %v, want %v", got, exp)

	assert.True(t, tokenExpiry("not-a-jwt").IsZero())
}
