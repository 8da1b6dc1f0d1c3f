package catalog

// regions maps a browsing region to its country codes, most popular first.
var regions = map[string][]string{
	"europe": {
		"DE", "FR", "GB", "IT", "ES", "NL", "BE", "PL", "SE", "NO", "DK", "FI", "AT", "CH", "PT",
		"IE", "GR", "CZ", "HU", "RO", "UA", "SK", "BG", "HR", "RS", "SI", "LT", "LV", "EE",
	},
	"americas": {
		"US", "CA", "MX", "BR", "AR", "CO", "CL", "PE", "VE", "EC", "BO", "PY", "UY", "CR", "PA",
		"CU", "DO", "PR", "JM", "TT",
	},
	"asia": {
		"JP", "KR", "CN", "IN", "TH", "VN", "ID", "PH", "MY", "SG", "TW", "HK", "PK", "BD", "LK",
		"NP", "MM", "KH", "LA",
	},
	"russia":  {"RU"},
	"africa":  {"ZA", "EG", "NG", "KE", "GH", "TZ", "MA", "DZ", "TN", "ET"},
	"oceania": {"AU", "NZ", "FJ", "PG"},
}

// regionOrder is the display order of regions.
var regionOrder = []string{"europe", "americas", "asia", "russia", "africa", "oceania"}

var genres = []string{
	"pop", "rock", "jazz", "classical", "electronic", "hip hop", "country",
	"r&b", "reggae", "latin", "folk", "blues", "metal", "indie", "soul",
	"dance", "ambient", "world", "news", "talk", "sports",
}

// Regions returns the region names in display order.
func Regions() []string {
	out := make([]string, len(regionOrder))
	copy(out, regionOrder)
	return out
}

// RegionCountries returns the country codes of a region.
func RegionCountries(region string) ([]string, bool) {
	codes, ok := regions[region]
	if !ok {
		return nil, false
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, true
}

// Genres returns the predefined genre list.
func Genres() []string {
	out := make([]string, len(genres))
	copy(out, genres)
	return out
}
