package domain

// SportType identifies one of the facility datasets served by the booking
// API. The whole dataset is partitioned by sport type.
type SportType string

const (
	SportBadminton   SportType = "badminton"
	SportTennis      SportType = "tennis"
	SportBasketball  SportType = "basketball"
	SportVolleyball  SportType = "volleyball"
	SportSoccerPitch SportType = "soccer-pitch"
)

// SportTypes lists every supported sport type in display order.
var SportTypes = []SportType{
	SportBadminton,
	SportTennis,
	SportBasketball,
	SportVolleyball,
	SportSoccerPitch,
}

// ParseSportType validates a raw sport type string. Returns
// ErrUnknownSportType for anything not in SportTypes.
func ParseSportType(s string) (SportType, error) {
	for _, st := range SportTypes {
		if s == string(st) {
			return st, nil
		}
	}
	return "", ErrUnknownSportType
}

func (s SportType) String() string { return string(s) }
