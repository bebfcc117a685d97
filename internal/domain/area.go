package domain

// Area codes for the three geographic super-groupings of Hong Kong
// districts. Listings are ordered by (area code, district name), so the
// sentinel sorts unresolved districts last.
const (
	AreaHongKongIsland  = "HKI"
	AreaKowloon         = "KLN"
	AreaNewTerritories  = "NT"
	AreaUnknownSentinel = "ZZZ"
)

// districtAreas maps the canonical English district name to its area code.
// All 18 districts are listed; lookups are exact.
var districtAreas = map[string]string{
	"Central and Western": AreaHongKongIsland,
	"Eastern":             AreaHongKongIsland,
	"Southern":            AreaHongKongIsland,
	"Wan Chai":            AreaHongKongIsland,

	"Kowloon City":  AreaKowloon,
	"Kwun Tong":     AreaKowloon,
	"Sham Shui Po":  AreaKowloon,
	"Wong Tai Sin":  AreaKowloon,
	"Yau Tsim Mong": AreaKowloon,

	"Islands":    AreaNewTerritories,
	"Kwai Tsing": AreaNewTerritories,
	"North":      AreaNewTerritories,
	"Sai Kung":   AreaNewTerritories,
	"Sha Tin":    AreaNewTerritories,
	"Tai Po":     AreaNewTerritories,
	"Tsuen Wan":  AreaNewTerritories,
	"Tuen Mun":   AreaNewTerritories,
	"Yuen Long":  AreaNewTerritories,
}

// AreaCodeFor resolves the area code for a district's canonical English
// name. Unknown districts get AreaUnknownSentinel so they sort after every
// resolved area. The mapping is stable across calls for the same name.
func AreaCodeFor(districtName string) string {
	if code, ok := districtAreas[districtName]; ok {
		return code
	}
	return AreaUnknownSentinel
}
