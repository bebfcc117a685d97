package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies bearer tokens for one backend. Refresh discards any
// cached token and acquires a new one; it is invoked after a 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// expirySkew is how long before the token's exp claim we stop handing it
// out and refresh proactively instead.
const expirySkew = 30 * time.Second

// clientCredentialsTokenSource acquires tokens from a backend auth endpoint
// with a client-credential POST, caching the result. When the token is a
// JWT, its exp claim drives proactive refresh; opaque tokens are kept until
// a 401 forces a refresh.
type clientCredentialsTokenSource struct {
	client       *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time // zero when unknown
}

// NewClientCredentialsTokenSource wires a token source for the given auth
// endpoint. A nil client falls back to http.DefaultClient.
func NewClientCredentialsTokenSource(client *http.Client, tokenURL, clientID, clientSecret string) TokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &clientCredentialsTokenSource{
		client:       client,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

func (t *clientCredentialsTokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" && (t.expiry.IsZero() || t.now().Add(expirySkew).Before(t.expiry)) {
		return t.token, nil
	}
	return t.fetchLocked(ctx)
}

func (t *clientCredentialsTokenSource) Refresh(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiry = time.Time{}
	return t.fetchLocked(ctx)
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (t *clientCredentialsTokenSource) fetchLocked(ctx context.Context) (string, error) {
	body, err := json.Marshal(tokenRequest{ClientID: t.clientID, ClientSecret: t.clientSecret})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status: %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}

	t.token = tr.AccessToken
	t.expiry = tokenExpiry(tr.AccessToken)
	return t.token, nil
}

// tokenExpiry reads the exp claim from a JWT without verifying the
// signature; the token is the backend's to validate, we only schedule the
// refresh. Returns the zero time for opaque or claimless tokens.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// StaticTokenSource returns the same token forever; Refresh is a no-op
// returning the token. Useful for tests and pre-issued credentials.
type StaticTokenSource string

func (s StaticTokenSource) Token(ctx context.Context) (string, error)   { return string(s), nil }
func (s StaticTokenSource) Refresh(ctx context.Context) (string, error) { return string(s), nil }
