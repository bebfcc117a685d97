package domain

// ListItemKind tags the variants of a flat-list entry.
type ListItemKind string

const (
	ListItemHeader ListItemKind = "header"
	ListItemVenue  ListItemKind = "venue"
)

// SectionHeader is the flat-list entry that opens a district section.
type SectionHeader struct {
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
	AreaCode     string `json:"area_code"`
	VenueCount   int    `json:"venue_count"`
}

// ListItem is one entry of the render-ready flat list: either a section
// header or a venue, discriminated by Kind. Exactly one of Header and Venue
// is set.
type ListItem struct {
	Kind   ListItemKind   `json:"kind"`
	Header *SectionHeader `json:"header,omitempty"`
	Venue  *Venue         `json:"venue,omitempty"`
}

// ListingTotals are the aggregate counts over the surviving output.
type ListingTotals struct {
	Districts          int `json:"districts"`
	Venues             int `json:"venues"`
	TimeSlots          int `json:"time_slots"`
	AvailableTimeSlots int `json:"available_time_slots"`
}

// Listing is the render-ready output of the transformation engine: districts
// in (area code, name) order, each contributing one SectionHeader entry
// followed by its venues in name order. StickyHeaderIndices records the
// flat-list position of every SectionHeader, for sticky-header pinning.
type Listing struct {
	FlatList            []ListItem           `json:"flat_list"`
	StickyHeaderIndices []int                `json:"sticky_header_indices"`
	DistrictsByID       map[string]*District `json:"districts_by_id"`
	VenuesByID          map[string]*Venue    `json:"venues_by_id"`
	Totals              ListingTotals        `json:"totals"`
}

// EmptyListing returns a zero-initialized listing with non-nil slices and
// maps, the result for an empty input batch.
func EmptyListing() *Listing {
	return &Listing{
		FlatList:            []ListItem{},
		StickyHeaderIndices: []int{},
		DistrictsByID:       map[string]*District{},
		VenuesByID:          map[string]*Venue{},
	}
}
