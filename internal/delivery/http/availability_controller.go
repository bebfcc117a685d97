package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"courtfinder/internal/adapters/apiclient"
	"courtfinder/internal/domain"
	"courtfinder/internal/services"
	"courtfinder/internal/transform"
)

// SportDataProvider is the slice of the sport data service the controller
// consumes.
type SportDataProvider interface {
	GetSportData(ctx context.Context, sportType domain.SportType) (*services.SportDataResult, error)
}

type AvailabilityController struct {
	Logger   *slog.Logger
	Provider SportDataProvider
}

func NewAvailabilityController(logger *slog.Logger, provider SportDataProvider) *AvailabilityController {
	return &AvailabilityController{
		Logger:   logger,
		Provider: provider,
	}
}

// CacheMeta describes where a response's data came from.
type CacheMeta struct {
	CacheHit        bool    `json:"cache_hit"`
	CacheAgeSeconds float64 `json:"cache_age_seconds"`
	LastUpdated     string  `json:"last_updated"`
}

// AvailabilityResponse is the response body for the availability endpoint.
type AvailabilityResponse struct {
	SportType domain.SportType `json:"sport_type"`
	Listing   *domain.Listing  `json:"listing"`
	Cache     CacheMeta        `json:"cache"`
}

// AvailabilitySuccessResponse is the success envelope for the availability endpoint (200).
type AvailabilitySuccessResponse struct {
	Data  AvailabilityResponse `json:"data"`
	Error *APIError            `json:"error"`
}

// RawRecordsResponse is the response body for the raw records endpoint.
type RawRecordsResponse struct {
	SportType domain.SportType           `json:"sport_type"`
	Count     int                        `json:"count"`
	Records   []domain.RawTimeSlotRecord `json:"records"`
	Cache     CacheMeta                  `json:"cache"`
}

// SportTypesResponse is the response body for the sport type index.
type SportTypesResponse struct {
	SportTypes []domain.SportType `json:"sport_types"`
}

// GetAvailability godoc
// @Summary Facility availability for a sport type
// @Description Returns the render-ready availability listing for one sport type: districts in (area, name) order, each with its venues, facility locations and time slots. Served from cache when the stored copy is under the freshness window.
// @Tags availability
// @Produce json
// @Param sportType path string true "Sport type (badminton, tennis, basketball, volleyball, soccer-pitch)"
// @Success 200 {object} http.AvailabilitySuccessResponse "data contains the listing and cache metadata"
// @Failure 400 {object} http.APIResponse "error.code: bad_request"
// @Failure 502 {object} http.APIResponse "error.code: upstream_error"
// @Failure 500 {object} http.APIResponse "error.code: internal_error"
// @Router /sports/{sportType}/availability [get]
func (c *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	sportType, err := domain.ParseSportType(r.PathValue("sportType"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "unknown sport type")
		return
	}

	res, err := c.Provider.GetSportData(r.Context(), sportType)
	if err != nil {
		c.writeProviderError(w, r, err)
		return
	}

	WriteJSONSuccess(w, http.StatusOK, AvailabilityResponse{
		SportType: sportType,
		Listing:   transform.Transform(res.Data.Data),
		Cache:     cacheMeta(res),
	})
}

// GetRawRecords godoc
// @Summary Raw time-slot records for a sport type
// @Description Returns the unprocessed upstream records currently cached for a sport type, for diagnostics.
// @Tags availability
// @Produce json
// @Param sportType path string true "Sport type"
// @Success 200 {object} http.APIResponse "data contains the raw record set"
// @Failure 400 {object} http.APIResponse "error.code: bad_request"
// @Failure 502 {object} http.APIResponse "error.code: upstream_error"
// @Router /sports/{sportType}/raw [get]
func (c *AvailabilityController) GetRawRecords(w http.ResponseWriter, r *http.Request) {
	sportType, err := domain.ParseSportType(r.PathValue("sportType"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "unknown sport type")
		return
	}

	res, err := c.Provider.GetSportData(r.Context(), sportType)
	if err != nil {
		c.writeProviderError(w, r, err)
		return
	}

	WriteJSONSuccess(w, http.StatusOK, RawRecordsResponse{
		SportType: sportType,
		Count:     len(res.Data.Data),
		Records:   res.Data.Data,
		Cache:     cacheMeta(res),
	})
}

// ListSportTypes godoc
// @Summary Supported sport types
// @Tags availability
// @Produce json
// @Success 200 {object} http.APIResponse "data contains the sport type list"
// @Router /sports [get]
func (c *AvailabilityController) ListSportTypes(w http.ResponseWriter, r *http.Request) {
	WriteJSONSuccess(w, http.StatusOK, SportTypesResponse{SportTypes: domain.SportTypes})
}

func cacheMeta(res *services.SportDataResult) CacheMeta {
	return CacheMeta{
		CacheHit:        res.CacheHit,
		CacheAgeSeconds: res.CacheAge.Round(time.Second).Seconds(),
		LastUpdated:     res.Data.LastUpdated,
	}
}

// writeProviderError maps service and client failures onto the response
// envelope. Upstream failures become 502 so the app can distinguish "our
// API is down" from "the booking backend is down".
func (c *AvailabilityController) writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	var netErr *apiclient.NetworkError
	var authErr *apiclient.AuthenticationError
	var apiErr *apiclient.APIClientError
	switch {
	case errors.As(err, &netErr), errors.As(err, &authErr), errors.As(err, &apiErr):
		c.Logger.WarnContext(r.Context(), "upstream fetch failed", "path", r.URL.Path, "err", err)
		WriteJSONError(w, http.StatusBadGateway, ErrCodeUpstream, "booking backend unavailable")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
