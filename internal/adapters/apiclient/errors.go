package apiclient

import (
	"fmt"
	"time"
)

// ErrorKind classifies an APIClientError by the HTTP status that caused it.
type ErrorKind string

const (
	KindForbidden   ErrorKind = "FORBIDDEN"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindRateLimited ErrorKind = "RATE_LIMITED"
	KindServerError ErrorKind = "SERVER_ERROR"
	KindUnknown     ErrorKind = "UNKNOWN_ERROR"
)

// kindForStatus maps an HTTP status to its error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// NetworkError is a timeout or connection failure: the request never got an
// HTTP response.
type NetworkError struct {
	Method   string
	Endpoint string
	Elapsed  time.Duration
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s after %s: %v", e.Method, e.Endpoint, e.Elapsed, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthenticationError is a 401 that survived the single token-refresh-and-
// retry cycle.
type AuthenticationError struct {
	Method   string
	Endpoint string
	Status   int
	Elapsed  time.Duration
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s %s returned %d after token refresh", e.Method, e.Endpoint, e.Status)
}

// APIClientError is any other non-success HTTP response, classified by Kind.
type APIClientError struct {
	Kind     ErrorKind
	Status   int
	Method   string
	Endpoint string
	Elapsed  time.Duration
}

func (e *APIClientError) Error() string {
	return fmt.Sprintf("api error %s: %s %s returned %d", e.Kind, e.Method, e.Endpoint, e.Status)
}
