package search

import (
	"context"
	"sort"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// DefaultProviderLimit caps how many service providers are offered per
// booking so a numbered choice stays readable.
const DefaultProviderLimit = 3

// Directory finds bookable service providers.
type Directory interface {
	Find(ctx context.Context, location string, limit int) ([]models.ServiceProvider, error)
}

// StaticDirectory serves the built-in provider list, best rated first.
type StaticDirectory struct {
	providers []models.ServiceProvider
}

// NewStaticDirectory creates a directory over the given providers. With no
// providers it falls back to the built-in workshop network.
func NewStaticDirectory(providers ...models.ServiceProvider) *StaticDirectory {
	if len(providers) == 0 {
		providers = workshopNetwork
	}
	return &StaticDirectory{providers: providers}
}

// Find returns up to limit providers, preferring a location match when one
// is given and higher ratings throughout. The location may be a city name or
// a UK postcode; a postcode resolves to its city through the postcode area.
// Limit 0 means DefaultProviderLimit.
func (d *StaticDirectory) Find(ctx context.Context, location string, limit int) ([]models.ServiceProvider, error) {
	if limit <= 0 {
		limit = DefaultProviderLimit
	}
	city := cityForLocation(location)
	matched := make([]models.ServiceProvider, len(d.providers))
	copy(matched, d.providers)
	sort.SliceStable(matched, func(i, j int) bool {
		if city != "" {
			li := strings.EqualFold(matched[i].Location, city)
			lj := strings.EqualFold(matched[j].Location, city)
			if li != lj {
				return li
			}
		}
		return matched[i].Rating > matched[j].Rating
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// postcodeAreas maps UK postcode area letters to the cities the workshop
// network covers.
var postcodeAreas = map[string]string{
	"E": "London", "EC": "London", "N": "London", "NW": "London",
	"SE": "London", "SW": "London", "W": "London", "WC": "London",
	"M": "Manchester", "B": "Birmingham", "BS": "Bristol",
}

// cityForLocation resolves a free-form location to a directory city. A
// postcode ("SW1A 1AA") resolves through its area letters; anything else is
// taken as a city name.
func cityForLocation(location string) string {
	trimmed := strings.TrimSpace(location)
	area, ok := postcodeArea(trimmed)
	if !ok {
		return trimmed
	}
	if city, ok := postcodeAreas[strings.ToUpper(area)]; ok {
		return city
	}
	return trimmed
}

// postcodeArea returns the leading letters of s when it looks like a UK
// postcode (one or two letters followed by a digit).
func postcodeArea(s string) (string, bool) {
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	if i == 0 || i > 2 || i >= len(s) || s[i] < '0' || s[i] > '9' {
		return "", false
	}
	return s[:i], true
}

var workshopNetwork = []models.ServiceProvider{
	{ID: "ws-001", Name: "RoadAtlas Service Centre Mayfair", Location: "London", Rating: 4.9},
	{ID: "ws-002", Name: "Apex Performance Workshop", Location: "London", Rating: 4.7},
	{ID: "ws-003", Name: "Northern Marque Specialists", Location: "Manchester", Rating: 4.8},
	{ID: "ws-004", Name: "Midlands Prestige Garage", Location: "Birmingham", Rating: 4.6},
	{ID: "ws-005", Name: "West Country Motor Works", Location: "Bristol", Rating: 4.5},
}
