// Package apiclient talks to the two booking backends. Each Backend wraps
// one base URL with bearer auth, transient-status retries and a single
// 401 refresh cycle; the Router picks the backend for a logical endpoint
// from an immutable route table and can fall back to the other backend for
// designated GET requests.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// transientStatuses are retried with linear backoff.
var transientStatuses = map[int]bool{
	http.StatusRequestTimeout:        true, // 408
	http.StatusRequestEntityTooLarge: true, // 413
	http.StatusTooManyRequests:       true, // 429
	http.StatusInternalServerError:   true, // 500
	http.StatusBadGateway:            true, // 502
	http.StatusServiceUnavailable:    true, // 503
	http.StatusGatewayTimeout:        true, // 504
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into dest.
func (r *Response) Decode(dest any) error {
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Backend is one booking backend: a base URL plus its own HTTP client,
// token source, retry budget and backoff unit.
type Backend struct {
	Name       string
	baseURL    string
	client     *http.Client
	tokens     TokenSource
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// BackendOptions configures a Backend.
type BackendOptions struct {
	Name       string
	BaseURL    string
	Client     *http.Client
	Tokens     TokenSource
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// NewBackend wires a backend client. A nil HTTP client falls back to
// http.DefaultClient; a non-positive base delay falls back to one second.
func NewBackend(opts BackendOptions) *Backend {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Backend{
		Name:       opts.Name,
		baseURL:    opts.BaseURL,
		client:     client,
		tokens:     opts.Tokens,
		maxRetries: opts.MaxRetries,
		baseDelay:  delay,
		logger:     opts.Logger,
	}
}

// Do issues one logical request against this backend. Transient statuses
// are retried up to the backend's budget with linear backoff (attempt
// number times the base delay); a 401 triggers exactly one token refresh
// and retry before surfacing AuthenticationError. Failures come back as
// NetworkError, AuthenticationError or APIClientError.
func (b *Backend) Do(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	start := time.Now()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request payload: %w", err)
		}
	}

	refreshed := false
	attempt := 0
	for {
		token, err := b.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire token for backend %s: %w", b.Name, err)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, b.baseURL+endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, &NetworkError{Method: method, Endpoint: endpoint, Elapsed: time.Since(start), Err: err}
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, &NetworkError{Method: method, Endpoint: endpoint, Elapsed: time.Since(start), Err: readErr}
		}

		status := resp.StatusCode
		if status >= 200 && status < 300 {
			return &Response{Status: status, Body: respBody}, nil
		}

		if status == http.StatusUnauthorized {
			if !refreshed {
				refreshed = true
				if _, err := b.tokens.Refresh(ctx); err != nil {
					return nil, fmt.Errorf("refresh token for backend %s: %w", b.Name, err)
				}
				continue
			}
			return nil, &AuthenticationError{Method: method, Endpoint: endpoint, Status: status, Elapsed: time.Since(start)}
		}

		if transientStatuses[status] && attempt < b.maxRetries {
			attempt++
			b.logger.WarnContext(ctx, "transient backend response, retrying",
				"backend", b.Name, "endpoint", endpoint, "status", status, "attempt", attempt)
			if err := sleepCtx(ctx, time.Duration(attempt)*b.baseDelay); err != nil {
				return nil, &NetworkError{Method: method, Endpoint: endpoint, Elapsed: time.Since(start), Err: err}
			}
			continue
		}

		return nil, &APIClientError{
			Kind:     kindForStatus(status),
			Status:   status,
			Method:   method,
			Endpoint: endpoint,
			Elapsed:  time.Since(start),
		}
	}
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
