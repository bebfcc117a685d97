package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"courtfinder/internal/domain"
)

// CacheTTL is the system-wide freshness window for cached sport data. It
// doubles as the suggested background refresh interval.
const CacheTTL = 30 * time.Minute

// SportDataResult is what GetSportData hands back: the record set plus
// cache diagnostics for the delivery layer.
type SportDataResult struct {
	Data     *domain.CachedSportData
	CacheHit bool
	CacheAge time.Duration
}

// SportDataService serves per-sport-type record sets, deciding on every call
// whether the stored copy is still fresh or the remote API must be hit.
// Fetches for the same sport type are de-duplicated: concurrent callers wait
// on the in-flight fetch instead of starting their own.
type SportDataService struct {
	store   domain.SportDataStore
	fetcher domain.SportDataFetcher
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	inflight map[domain.SportType]*inflightFetch
}

type inflightFetch struct {
	done   chan struct{}
	result *SportDataResult
	err    error
}

// NewSportDataService wires a sport data service. A non-positive ttl falls
// back to CacheTTL; a nil now falls back to time.Now.
func NewSportDataService(store domain.SportDataStore, fetcher domain.SportDataFetcher, logger *slog.Logger, ttl time.Duration, now func() time.Time) *SportDataService {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SportDataService{
		store:    store,
		fetcher:  fetcher,
		logger:   logger,
		ttl:      ttl,
		now:      now,
		inflight: make(map[domain.SportType]*inflightFetch),
	}
}

// isFresh reports whether a cache timestamp is inside the ttl window.
// Unparseable timestamps count as stale and force a refetch.
func isFresh(lastUpdated string, now time.Time, ttl time.Duration) bool {
	t, err := time.Parse(time.RFC3339, lastUpdated)
	if err != nil {
		return false
	}
	return now.Sub(t) < ttl
}

// shouldFetch decides whether a network fetch is needed for the cached
// entry: absent entry, absent timestamp, or stale timestamp.
func shouldFetch(cached *domain.CachedSportData, now time.Time, ttl time.Duration) bool {
	if cached == nil || cached.LastUpdated == "" {
		return true
	}
	return !isFresh(cached.LastUpdated, now, ttl)
}

// cacheAge returns how old a cache entry is, zero when the timestamp is
// missing or unparseable.
func (s *SportDataService) cacheAge(cached *domain.CachedSportData) time.Duration {
	t, err := time.Parse(time.RFC3339, cached.LastUpdated)
	if err != nil {
		return 0
	}
	return s.now().Sub(t)
}

// GetSportData returns the record set for a sport type, serving the stored
// copy when it is fresh and fetching otherwise. On fetch failure the error
// is returned and any stale stored entry is left untouched, so the caller
// may still read it for degraded presentation.
func (s *SportDataService) GetSportData(ctx context.Context, sportType domain.SportType) (*SportDataResult, error) {
	cached, err := s.store.Get(ctx, sportType)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("read cached sport data: %w", err)
	}

	if !shouldFetch(cached, s.now(), s.ttl) {
		return &SportDataResult{
			Data:     cached,
			CacheHit: true,
			CacheAge: s.cacheAge(cached),
		}, nil
	}

	return s.fetchShared(ctx, sportType)
}

// Refresh forces a fetch-and-store for one sport type, ignoring freshness.
// It still participates in in-flight de-duplication.
func (s *SportDataService) Refresh(ctx context.Context, sportType domain.SportType) (*SportDataResult, error) {
	return s.fetchShared(ctx, sportType)
}

// RefreshAll refreshes every supported sport type, returning the first
// error after attempting all of them.
func (s *SportDataService) RefreshAll(ctx context.Context) error {
	var firstErr error
	for _, st := range domain.SportTypes {
		if _, err := s.Refresh(ctx, st); err != nil {
			s.logger.WarnContext(ctx, "refresh failed", "sport_type", st, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// fetchShared claims the in-flight slot for the sport type or joins an
// existing one. Only the claiming caller performs the network fetch and the
// store write; everyone else waits on its result.
func (s *SportDataService) fetchShared(ctx context.Context, sportType domain.SportType) (*SportDataResult, error) {
	s.mu.Lock()
	if f, ok := s.inflight[sportType]; ok {
		s.mu.Unlock()
		select {
		case <-f.done:
			return f.result, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &inflightFetch{done: make(chan struct{})}
	s.inflight[sportType] = f
	s.mu.Unlock()

	f.result, f.err = s.fetchAndStore(ctx, sportType)

	s.mu.Lock()
	delete(s.inflight, sportType)
	s.mu.Unlock()
	close(f.done)

	return f.result, f.err
}

func (s *SportDataService) fetchAndStore(ctx context.Context, sportType domain.SportType) (*SportDataResult, error) {
	data, err := s.fetcher.Fetch(ctx, sportType)
	if err != nil {
		return nil, err
	}

	// Stamp completion time so the entry is never marked newer than the
	// data it describes.
	data.SportType = sportType
	data.LastUpdated = s.now().UTC().Format(time.RFC3339)

	// The owning context may have been torn down while the fetch was in
	// flight; discard the result rather than mutating shared state for a
	// dead caller.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := s.store.Put(ctx, data); err != nil {
		// Serving the fresh records still succeeds; only durability is lost.
		s.logger.WarnContext(ctx, "store cached sport data failed", "sport_type", sportType, "err", err)
	}

	return &SportDataResult{Data: data, CacheHit: false}, nil
}
