package domain

// AvailabilityLevel is a four-value ordinal describing how many courts a slot
// has free relative to the maximum seen in its sibling group.
type AvailabilityLevel string

const (
	AvailabilityNone   AvailabilityLevel = "none"
	AvailabilityLow    AvailabilityLevel = "low"
	AvailabilityMedium AvailabilityLevel = "medium"
	AvailabilityHigh   AvailabilityLevel = "high"
)

// Rank orders availability levels none < low < medium < high.
func (l AvailabilityLevel) Rank() int {
	switch l {
	case AvailabilityLow:
		return 1
	case AvailabilityMedium:
		return 2
	case AvailabilityHigh:
		return 3
	default:
		return 0
	}
}
