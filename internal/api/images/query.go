package images

import (
	"fmt"
	"strings"
)

// Query identifies one place whose photo should be resolved. Latitude
// and Longitude are nil when the client supplied no coordinates.
type Query struct {
	Name      string
	Category  string
	Location  string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates reports whether the query carries usable coordinates.
func (q Query) HasCoordinates() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// cacheKey builds the composite memoization key.
func (q Query) cacheKey() string {
	lat, lon := "", ""
	if q.Latitude != nil {
		lat = fmt.Sprintf("%f", *q.Latitude)
	}
	if q.Longitude != nil {
		lon = fmt.Sprintf("%f", *q.Longitude)
	}
	return strings.Join([]string{q.Name, q.Category, q.Location, lat, lon, q.Address}, "_")
}

// categoryKeywords maps a cuisine or activity category to a stock-photo
// search phrase.
var categoryKeywords = map[string]string{
	"italian":       "italian restaurant pasta food",
	"mexican":       "mexican restaurant tacos food",
	"american":      "american restaurant burger food",
	"japanese":      "japanese restaurant sushi food",
	"chinese":       "chinese restaurant food",
	"indian":        "indian restaurant curry food",
	"thai":          "thai restaurant food",
	"french":        "french restaurant food",
	"mediterranean": "mediterranean restaurant food",
	"seafood":       "seafood restaurant fish food",
	"steakhouse":    "steakhouse restaurant steak food",
	"contemporary":  "modern restaurant fine dining food",
	"sports":        "sports fitness activity",
	"outdoor":       "outdoor nature activity",
	"indoor":        "indoor activity entertainment",
	"entertainment": "entertainment venue activity",
	"fitness":       "fitness gym workout",
}

// searchQuery builds the stock-photo search phrase for a query: the
// category keyword table with a generic "{category} restaurant"
// fallback, plus the city part of the location when present.
func (q Query) searchQuery() string {
	base, ok := categoryKeywords[strings.ToLower(q.Category)]
	if !ok {
		base = fmt.Sprintf("%s restaurant", q.Category)
	}
	if q.Location != "" {
		city := strings.TrimSpace(strings.Split(q.Location, ",")[0])
		return fmt.Sprintf("%s %s", base, city)
	}
	return base
}

// addressCity extracts the city segment from a full street address
// ("123 Main St, Springfield, IL" -> "Springfield").
func addressCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
