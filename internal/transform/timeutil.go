package transform

import (
	"fmt"
	"strconv"
	"strings"

	"courtfinder/internal/domain"
)

// Day sessions run from 06:00 (inclusive) to 18:00 (exclusive).
const (
	dayStartHour = 6
	dayEndHour   = 18
)

// parseHour extracts the hour from an HH:MM string. ok is false when the
// hour is unparseable or outside [0, 23].
func parseHour(timeStr string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(timeStr), ":")
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// IsDaySlot reports whether the session starts in the day window. Malformed
// input counts as day: upstream data drops the time on some records and the
// product treats those as daytime sessions.
func IsDaySlot(timeStr string) bool {
	h, ok := parseHour(timeStr)
	if !ok {
		return true
	}
	return h >= dayStartHour && h < dayEndHour
}

// FormatTime normalizes an HH:MM string to zero-padded form ("8:5" becomes
// "08:05"). On any parse failure the input is returned unchanged; this never
// fails a record.
func FormatTime(timeStr string) string {
	head, tail, found := strings.Cut(strings.TrimSpace(timeStr), ":")
	if !found {
		return timeStr
	}
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return timeStr
	}
	m, err := strconv.Atoi(strings.TrimSpace(tail))
	if err != nil || m < 0 || m > 59 {
		return timeStr
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseCourts parses an available-courts count. Negative or unparseable
// values clamp to zero.
func ParseCourts(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// LevelFor derives the availability level for a slot from its available
// court count and the maximum available count across its sibling group.
// Thresholds are strict: a ratio of exactly 0.75 is medium, not high.
func LevelFor(available, max int) domain.AvailabilityLevel {
	if max <= 0 || available <= 0 {
		return domain.AvailabilityNone
	}
	ratio := float64(available) / float64(max)
	switch {
	case ratio > 0.75:
		return domain.AvailabilityHigh
	case ratio > 0.50:
		return domain.AvailabilityMedium
	case ratio > 0.25:
		return domain.AvailabilityLow
	default:
		return domain.AvailabilityNone
	}
}
