package domain

import "context"

// RawTimeSlotRecord is one row of the upstream booking API response: a single
// bookable session at a facility location, with parallel English/Chinese
// naming. Numeric and coordinate fields arrive as strings and may be empty or
// malformed; sanitising them is the transformation engine's job.
type RawTimeSlotRecord struct {
	District           string `json:"district_en"`
	DistrictTC         string `json:"district_tc"`
	Venue              string `json:"venue_en"`
	VenueTC            string `json:"venue_tc"`
	Address            string `json:"address_en"`
	AddressTC          string `json:"address_tc"`
	Phone              string `json:"phone"`
	Latitude           string `json:"latitude"`
	Longitude          string `json:"longitude"`
	FacilityType       string `json:"facility_type_en"`
	FacilityTypeTC     string `json:"facility_type_tc"`
	FacilityLocation   string `json:"facility_location_en"`
	FacilityLocationTC string `json:"facility_location_tc"`
	PlayDate           string `json:"play_date"`        // YYYY-MM-DD
	StartTime          string `json:"start_time"`       // HH:MM
	EndTime            string `json:"end_time"`         // HH:MM
	AvailableCourts    string `json:"available_courts"` // numeric string
}

// CachedSportData is the cache entry for one sport type: the full raw record
// set plus the timestamp of the fetch that produced it. Entries are only ever
// replaced wholesale, never partially mutated.
type CachedSportData struct {
	SportType   SportType           `json:"sport_type"`
	Data        []RawTimeSlotRecord `json:"data"`
	LastUpdated string              `json:"last_updated"` // RFC 3339
}

// SportDataStore is a durable key-value store for cached sport data, keyed by
// sport type. Get returns ErrNotFound on a miss. Put replaces any existing
// entry for the same sport type.
type SportDataStore interface {
	Get(ctx context.Context, sportType SportType) (*CachedSportData, error)
	Put(ctx context.Context, data *CachedSportData) error
	Delete(ctx context.Context, sportType SportType) error
}

// SportDataFetcher fetches the raw record set for a sport type from the
// remote booking API (or a test double).
type SportDataFetcher interface {
	Fetch(ctx context.Context, sportType SportType) (*CachedSportData, error)
}
