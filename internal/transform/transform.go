// Package transform turns flat batches of raw time-slot records into the
// hierarchical, render-ready listing consumed by the delivery layer:
// district -> venue -> facility location -> time slot, with availability
// levels computed against each facility location's own maximum.
//
// The engine is pure and synchronous, and it never fails a batch over
// malformed individual records: bad court counts clamp to zero, bad times
// pass through unformatted, bad coordinates collapse to the empty sentinel.
package transform

import (
	"sort"
	"strconv"
	"strings"

	"courtfinder/internal/domain"
)

// Transform converts a flat record batch into a Listing. An empty batch
// returns an empty, zero-initialized listing.
func Transform(records []domain.RawTimeSlotRecord) *domain.Listing {
	listing := domain.EmptyListing()
	if len(records) == 0 {
		return listing
	}

	// Group by district, preserving first-seen order inside each group.
	// Final ordering is re-sorted below, so the grouping order only decides
	// tie-breaks, which stable sorts keep intact.
	districtNames, byDistrict := groupRecords(records, func(r domain.RawTimeSlotRecord) string {
		return r.District
	})

	var districts []*domain.District
	for _, districtName := range districtNames {
		venueNames, byVenue := groupRecords(byDistrict[districtName], func(r domain.RawTimeSlotRecord) string {
			return r.Venue
		})

		var venues []*domain.Venue
		for _, venueName := range venueNames {
			v := buildVenue(districtName, venueName, byVenue[venueName])
			// Filtering is at venue granularity: a venue survives when any
			// slot in any of its facility locations has a court free, and a
			// surviving venue keeps its zero-court slots.
			if v.TotalAvailableCourts < 1 {
				continue
			}
			venues = append(venues, v)
		}
		if len(venues) == 0 {
			continue
		}
		sort.SliceStable(venues, func(i, j int) bool { return venues[i].Name < venues[j].Name })

		d := &domain.District{
			ID:          districtID(districtName),
			Name:        districtName,
			AreaCode:    domain.AreaCodeFor(districtName),
			Venues:      venues,
			TotalVenues: len(venues),
		}
		for _, v := range venues {
			d.TotalTimeSlots += len(v.AllTimeSlots)
			for _, ts := range v.AllTimeSlots {
				if ts.AvailableCourts >= 1 {
					d.TotalAvailableTimeSlots++
				}
			}
		}
		districts = append(districts, d)
	}

	sort.SliceStable(districts, func(i, j int) bool {
		if districts[i].AreaCode != districts[j].AreaCode {
			return districts[i].AreaCode < districts[j].AreaCode
		}
		return districts[i].Name < districts[j].Name
	})

	for _, d := range districts {
		listing.DistrictsByID[d.ID] = d
		listing.StickyHeaderIndices = append(listing.StickyHeaderIndices, len(listing.FlatList))
		listing.FlatList = append(listing.FlatList, domain.ListItem{
			Kind: domain.ListItemHeader,
			Header: &domain.SectionHeader{
				DistrictID:   d.ID,
				DistrictName: d.Name,
				AreaCode:     d.AreaCode,
				VenueCount:   d.TotalVenues,
			},
		})
		for _, v := range d.Venues {
			listing.VenuesByID[v.ID] = v
			listing.FlatList = append(listing.FlatList, domain.ListItem{
				Kind:  domain.ListItemVenue,
				Venue: v,
			})
		}
		listing.Totals.Districts++
		listing.Totals.Venues += d.TotalVenues
		listing.Totals.TimeSlots += d.TotalTimeSlots
		listing.Totals.AvailableTimeSlots += d.TotalAvailableTimeSlots
	}

	return listing
}

// groupRecords partitions records by key, returning the keys in first-seen
// order alongside the groups.
func groupRecords(records []domain.RawTimeSlotRecord, key func(domain.RawTimeSlotRecord) string) ([]string, map[string][]domain.RawTimeSlotRecord) {
	var keys []string
	groups := make(map[string][]domain.RawTimeSlotRecord)
	for _, r := range records {
		k := key(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	return keys, groups
}

func buildVenue(districtName, venueName string, records []domain.RawTimeSlotRecord) *domain.Venue {
	locationNames, byLocation := groupRecords(records, func(r domain.RawTimeSlotRecord) string {
		return r.FacilityLocation
	})

	v := &domain.Venue{
		ID:           venueID(districtName, venueName),
		Name:         venueName,
		Address:      records[0].Address,
		Phone:        records[0].Phone,
		District:     districtName,
		FacilityType: records[0].FacilityType,
		Coordinates:  sanitizeCoordinates(records[0].Latitude, records[0].Longitude),
	}

	for _, name := range locationNames {
		v.FacilityLocations = append(v.FacilityLocations, buildFacilityLocation(name, byLocation[name]))
	}
	sort.SliceStable(v.FacilityLocations, func(i, j int) bool {
		return v.FacilityLocations[i].Name < v.FacilityLocations[j].Name
	})

	for _, loc := range v.FacilityLocations {
		v.TotalAvailableCourts += loc.TotalAvailableCourts
		if loc.MaxCourtsPerSlot > v.MaxCourtsPerSlot {
			v.MaxCourtsPerSlot = loc.MaxCourtsPerSlot
		}
		v.AllTimeSlots = append(v.AllTimeSlots, loc.TimeSlots...)
	}
	return v
}

func buildFacilityLocation(name string, records []domain.RawTimeSlotRecord) domain.FacilityLocation {
	// Availability levels are relative to this facility location's own
	// best slot, not a global constant.
	maxCourts := 0
	for _, r := range records {
		if n := ParseCourts(r.AvailableCourts); n > maxCourts {
			maxCourts = n
		}
	}

	loc := domain.FacilityLocation{
		Name:             name,
		MaxCourtsPerSlot: maxCourts,
	}
	for _, r := range records {
		courts := ParseCourts(r.AvailableCourts)
		loc.TimeSlots = append(loc.TimeSlots, domain.TimeSlot{
			ID:              slotID(r, courts),
			StartTime:       FormatTime(r.StartTime),
			EndTime:         FormatTime(r.EndTime),
			AvailableCourts: courts,
			Level:           LevelFor(courts, maxCourts),
			IsDay:           IsDaySlot(r.StartTime),
			Source:          r,
		})
		loc.TotalAvailableCourts += courts
	}
	// Zero-padded HH:MM sorts correctly as a string; ties keep input order.
	sort.SliceStable(loc.TimeSlots, func(i, j int) bool {
		return loc.TimeSlots[i].StartTime < loc.TimeSlots[j].StartTime
	})
	return loc
}

// sanitizeCoordinates accepts a lat/lng pair only when both values are
// non-empty and parse as floats; anything else becomes the empty sentinel.
// Out-of-range positions are accepted as-is; only parse failures are
// rejected.
func sanitizeCoordinates(lat, lng string) domain.Coordinates {
	lat = strings.TrimSpace(lat)
	lng = strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return domain.Coordinates{}
	}
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return domain.Coordinates{}
	}
	if _, err := strconv.ParseFloat(lng, 64); err != nil {
		return domain.Coordinates{}
	}
	return domain.Coordinates{Latitude: lat, Longitude: lng}
}

func slotID(r domain.RawTimeSlotRecord, courts int) string {
	return strings.Join([]string{
		r.District, r.Venue, r.FacilityLocation,
		FormatTime(r.StartTime), FormatTime(r.EndTime), strconv.Itoa(courts),
	}, "|")
}

func venueID(districtName, venueName string) string {
	return districtName + "|" + venueName
}

func districtID(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
