// Package search aggregates vehicle inventory across marketplace sources and
// exposes the service provider directory.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// Criteria filters a marketplace search. Zero-valued fields do not filter.
type Criteria struct {
	Make       string
	Model      string
	Year       int
	MaxMileage int
}

// Matches reports whether a listing satisfies the criteria.
func (c Criteria) Matches(l models.VehicleListing) bool {
	if c.Make != "" && !strings.EqualFold(c.Make, l.Make) {
		return false
	}
	if c.Model != "" && !strings.Contains(strings.ToLower(l.Model), strings.ToLower(c.Model)) {
		return false
	}
	if c.Year != 0 && c.Year != l.Year {
		return false
	}
	if c.MaxMileage != 0 && l.Mileage > c.MaxMileage {
		return false
	}
	return true
}

// Provider is one marketplace inventory source.
type Provider interface {
	Name() string
	Search(ctx context.Context, criteria Criteria) ([]models.VehicleListing, error)
}

// Aggregator fans a search out to every provider, collapses duplicate
// vehicles and returns the results ordered by price ascending.
type Aggregator struct {
	providers []Provider
}

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

// Search queries all providers. A failing provider is logged and skipped so
// one broken source cannot take the marketplace down.
func (a *Aggregator) Search(ctx context.Context, criteria Criteria) ([]models.VehicleListing, error) {
	seen := make(map[string]bool)
	var results []models.VehicleListing
	for _, p := range a.providers {
		listings, err := p.Search(ctx, criteria)
		if err != nil {
			slog.Warn("Aggregator Search provider failed", "provider", p.Name(), "error", err)
			continue
		}
		for _, l := range listings {
			key := l.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, l)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price < results[j].Price
	})
	slog.Debug("Aggregator Search completed", "make", criteria.Make, "results", len(results))
	return results, nil
}
