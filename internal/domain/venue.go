package domain

// TimeSlot is a single bookable session derived from a raw record. ID is a
// composite of district, venue, facility location, start, end and court count
// so that two slots sharing a time range stay distinct.
type TimeSlot struct {
	ID              string            `json:"id"`
	StartTime       string            `json:"start_time"` // zero-padded HH:MM
	EndTime         string            `json:"end_time"`
	AvailableCourts int               `json:"available_courts"`
	Level           AvailabilityLevel `json:"availability_level"`
	IsDay           bool              `json:"is_day"`
	Source          RawTimeSlotRecord `json:"source"`
}

// FacilityLocation is a named sub-area within a venue (e.g. "Court A") with
// its own time slots, sorted ascending by start time.
type FacilityLocation struct {
	Name                 string     `json:"name"`
	TimeSlots            []TimeSlot `json:"time_slots"`
	TotalAvailableCourts int        `json:"total_available_courts"`
	MaxCourtsPerSlot     int        `json:"max_courts_per_slot"`
}

// Coordinates holds a venue position as strings. Both fields are empty when
// the upstream values failed to parse; callers must treat that as "no
// position", not (0, 0).
type Coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// IsZero reports whether the coordinates are the empty sentinel.
func (c Coordinates) IsZero() bool {
	return c.Latitude == "" && c.Longitude == ""
}

// Venue is a sports centre with one or more facility locations. Venues with
// no slot offering at least one court are dropped from listings entirely.
type Venue struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Address              string             `json:"address"`
	Phone                string             `json:"phone"`
	District             string             `json:"district"`
	FacilityType         string             `json:"facility_type"`
	FacilityLocations    []FacilityLocation `json:"facility_locations"`
	Coordinates          Coordinates        `json:"coordinates"`
	TotalAvailableCourts int                `json:"total_available_courts"`
	MaxCourtsPerSlot     int                `json:"max_courts_per_slot"`
	AllTimeSlots         []TimeSlot         `json:"all_time_slots"`
}

// District groups the surviving venues of one Hong Kong district.
type District struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	AreaCode                string   `json:"area_code"`
	Venues                  []*Venue `json:"venues"`
	TotalVenues             int      `json:"total_venues"`
	TotalTimeSlots          int      `json:"total_time_slots"`
	TotalAvailableTimeSlots int      `json:"total_available_time_slots"`
}
