package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routerForTest(t *testing.T, primarySrv, secondarySrv *httptest.Server, table RouteTable) *Router {
	t.Helper()
	primary := NewBackend(BackendOptions{
		Name:      "primary",
		BaseURL:   primarySrv.URL,
		Client:    primarySrv.Client(),
		Tokens:    StaticTokenSource("primary-token"),
		BaseDelay: time.Millisecond,
		Logger:    testLogger,
	})
	secondary := NewBackend(BackendOptions{
		Name:      "secondary",
		BaseURL:   secondarySrv.URL,
		Client:    secondarySrv.Client(),
		Tokens:    StaticTokenSource("secondary-token"),
		BaseDelay: time.Millisecond,
		Logger:    testLogger,
	})
	r, err := NewRouter(primary, secondary, table, testLogger)
	require.NoError(t, err)
	return r
}

func TestRouterResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	table := RouteTable{
		Exact: map[string]BackendName{
			"/api/health": BackendSecondary,
		},
		Prefixes: map[string]BackendName{
			"/api/sports/":        BackendPrimary,
			"/api/sports/legacy/": BackendSecondary,
			"/api/venues/":        BackendSecondary,
		},
		Default: BackendPrimary,
	}
	router := routerForTest(t, srv, srv, table)

	tests := []struct {
		endpoint string
		want     BackendName
	}{
		{"/api/health", BackendSecondary},
		{"/api/sports/badminton", BackendPrimary},
		{"/api/sports/legacy/tennis", BackendSecondary}, // longest prefix wins
		{"/api/venues/123", BackendSecondary},
		{"/api/v2/foo", BackendPrimary}, // unmatched path goes to default
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, router.Resolve(tt.endpoint), "endpoint %s", tt.endpoint)
	}
}

func TestRouterRejectsBadTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	b := NewBackend(BackendOptions{Name: "b", BaseURL: srv.URL, Tokens: StaticTokenSource("t"), Logger: testLogger})

	_, err := NewRouter(b, b, RouteTable{
		Prefixes: map[string]BackendName{"/api/sports": BackendPrimary},
		Default:  BackendPrimary,
	}, testLogger)
	assert.Error(t, err, "prefix without trailing slash must be rejected")

	_, err = NewRouter(b, b, RouteTable{Default: "tertiary"}, testLogger)
	assert.Error(t, err)
}

func TestRouterDoDispatchesByTable(t *testing.T) {
	var primaryCalls, secondaryCalls atomic.Int32
	primarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryCalls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer primarySrv.Close()
	secondarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer secondarySrv.Close()

	router := routerForTest(t, primarySrv, secondarySrv, DefaultRouteTable())

	_, err := router.Do(context.Background(), http.MethodGet, "/api/sports/badminton", nil)
	require.NoError(t, err)
	_, err = router.Do(context.Background(), http.MethodGet, "/api/venues/42", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), primaryCalls.Load())
	assert.Equal(t, int32(1), secondaryCalls.Load())
}

func TestGetWithFallbackOnPersistentAuthFailure(t *testing.T) {
	primarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer primarySrv.Close()
	var secondaryCalls atomic.Int32
	secondarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
		w.Write([]byte(`{"source":"secondary"}`))
	}))
	defer secondarySrv.Close()

	router := routerForTest(t, primarySrv, secondarySrv, DefaultRouteTable())

	resp, err := router.GetWithFallback(context.Background(), "/api/sports/badminton")
	require.NoError(t, err)
	assert.Equal(t, int32(1), secondaryCalls.Load())

	var body struct {
		Source string `json:"source"`
	}
	require.NoError(t, resp.Decode(&body))
	assert.Equal(t, "secondary", body.Source)
}

func TestGetWithFallbackOnlyForAuthErrors(t *testing.T) {
	primarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer primarySrv.Close()
	var secondaryCalls atomic.Int32
	secondarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
	}))
	defer secondarySrv.Close()

	router := routerForTest(t, primarySrv, secondarySrv, DefaultRouteTable())

	_, err := router.GetWithFallback(context.Background(), "/api/sports/badminton")
	var apiErr *APIClientError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Equal(t, int32(0), secondaryCalls.Load(), "non-auth failures must not cross backends")
}

func TestDoHasNoCrossBackendFallback(t *testing.T) {
	primarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer primarySrv.Close()
	var secondaryCalls atomic.Int32
	secondarySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
	}))
	defer secondarySrv.Close()

	router := routerForTest(t, primarySrv, secondarySrv, DefaultRouteTable())

	_, err := router.Do(context.Background(), http.MethodGet, "/api/sports/badminton", nil)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(0), secondaryCalls.Load())
}
