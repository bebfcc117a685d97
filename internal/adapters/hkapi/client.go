// Package hkapi adapts the booking API's sport-data endpoint to the domain
// fetcher interface.
package hkapi

import (
	"context"
	"fmt"
	"time"

	"courtfinder/internal/adapters/apiclient"
	"courtfinder/internal/domain"
)

type sportDataResponse struct {
	SportType   string                     `json:"sport_type"`
	Data        []domain.RawTimeSlotRecord `json:"data"`
	Count       int                        `json:"count"`
	LastUpdated string                     `json:"last_updated"`
}

type client struct {
	router *apiclient.Router
	now    func() time.Time
}

// NewClient returns a fetcher that reads sport data through the backend
// router, using the fallback-enabled GET so an auth outage on one backend
// does not take availability down with it.
func NewClient(router *apiclient.Router) domain.SportDataFetcher {
	return &client{router: router, now: time.Now}
}

func (c *client) Fetch(ctx context.Context, sportType domain.SportType) (*domain.CachedSportData, error) {
	endpoint := fmt.Sprintf("/api/sports/%s", sportType)
	resp, err := c.router.GetWithFallback(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload sportDataResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sport data for %s: %w", sportType, err)
	}

	lastUpdated := payload.LastUpdated
	if lastUpdated == "" {
		lastUpdated = c.now().UTC().Format(time.RFC3339)
	}
	return &domain.CachedSportData{
		SportType:   sportType,
		Data:        payload.Data,
		LastUpdated: lastUpdated,
	}, nil
}
