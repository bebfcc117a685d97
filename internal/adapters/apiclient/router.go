package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
)

// BackendName identifies one of the two booking backends.
type BackendName string

const (
	BackendPrimary   BackendName = "primary"
	BackendSecondary BackendName = "secondary"
)

// RouteTable maps logical endpoint paths to backends. Exact entries win
// over prefix rules; prefix rules must end in "/" and the longest matching
// prefix wins; everything else goes to Default. The table is fixed once the
// Router is built.
type RouteTable struct {
	Exact    map[string]BackendName
	Prefixes map[string]BackendName
	Default  BackendName
}

// DefaultRouteTable is the production routing: sport availability comes
// from the primary backend, venue metadata from the secondary.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Exact: map[string]BackendName{
			"/api/health": BackendPrimary,
		},
		Prefixes: map[string]BackendName{
			"/api/sports/": BackendPrimary,
			"/api/venues/": BackendSecondary,
		},
		Default: BackendPrimary,
	}
}

type prefixRule struct {
	prefix  string
	backend BackendName
}

// Router dispatches logical requests to one of the two backends according
// to its route table.
type Router struct {
	backends map[BackendName]*Backend
	exact    map[string]BackendName
	prefixes []prefixRule
	fallback BackendName
	logger   *slog.Logger
}

// NewRouter builds a router over the two backends. The route table is
// copied; mutating the argument afterwards has no effect.
func NewRouter(primary, secondary *Backend, table RouteTable, logger *slog.Logger) (*Router, error) {
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("router requires both backends")
	}
	if table.Default != BackendPrimary && table.Default != BackendSecondary {
		return nil, fmt.Errorf("invalid default backend %q", table.Default)
	}

	exact := make(map[string]BackendName, len(table.Exact))
	for path, name := range table.Exact {
		exact[path] = name
	}

	prefixes := make([]prefixRule, 0, len(table.Prefixes))
	for prefix, name := range table.Prefixes {
		if !strings.HasSuffix(prefix, "/") {
			return nil, fmt.Errorf("prefix rule %q must end in /", prefix)
		}
		prefixes = append(prefixes, prefixRule{prefix: prefix, backend: name})
	}
	// Longest prefix first so the most specific rule wins.
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i].prefix) > len(prefixes[j].prefix) })

	return &Router{
		backends: map[BackendName]*Backend{
			BackendPrimary:   primary,
			BackendSecondary: secondary,
		},
		exact:    exact,
		prefixes: prefixes,
		fallback: table.Default,
		logger:   logger,
	}, nil
}

// Resolve returns the backend name an endpoint routes to.
func (r *Router) Resolve(endpoint string) BackendName {
	if name, ok := r.exact[endpoint]; ok {
		return name
	}
	for _, rule := range r.prefixes {
		if strings.HasPrefix(endpoint, rule.prefix) {
			return rule.backend
		}
	}
	return r.fallback
}

// Do routes the request to the table's backend and delegates. Errors are
// surfaced as-is; there is no cross-backend retry on this path.
func (r *Router) Do(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	return r.backends[r.Resolve(endpoint)].Do(ctx, method, endpoint, payload)
}

// GetWithFallback issues a GET that may be retried once against the other
// backend when the routed backend fails authentication even after a token
// refresh. Any other failure surfaces immediately.
func (r *Router) GetWithFallback(ctx context.Context, endpoint string) (*Response, error) {
	routed := r.Resolve(endpoint)
	resp, err := r.backends[routed].Do(ctx, http.MethodGet, endpoint, nil)
	if err == nil {
		return resp, nil
	}

	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		return nil, err
	}

	other := otherBackend(routed)
	r.logger.WarnContext(ctx, "authentication failed, falling back to other backend",
		"endpoint", endpoint, "routed", routed, "fallback", other)
	return r.backends[other].Do(ctx, http.MethodGet, endpoint, nil)
}

func otherBackend(name BackendName) BackendName {
	if name == BackendPrimary {
		return BackendSecondary
	}
	return BackendPrimary
}
