package search

import (
	"context"
	"errors"
	"testing"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

type failingProvider struct{}

func (failingProvider) Name() string { return "broken" }
func (failingProvider) Search(ctx context.Context, c Criteria) ([]models.VehicleListing, error) {
	return nil, errors.New("upstream timeout")
}

func TestShowroomFerrariSearch(t *testing.T) {
	agg := NewAggregator(NewShowroomProvider())
	results, err := agg.Search(context.Background(), Criteria{Make: "Ferrari", Year: 2019})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) < 3 {
		t.Fatalf("expected at least 3 Ferraris from 2019, got %d", len(results))
	}
	for _, l := range results {
		if l.Make != "Ferrari" || l.Year != 2019 {
			t.Errorf("stray result: %+v", l)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Price < results[i-1].Price {
			t.Errorf("results not sorted by price: %v before %v", results[i-1].Price, results[i].Price)
		}
	}
}

func TestAggregatorDedup(t *testing.T) {
	dup := models.VehicleListing{ID: "x-1", Make: "ferrari", Model: "488 GTB", Year: 2019, Price: 189950, Mileage: 8200, Location: "london"}
	second := NewStaticProvider("mirror", []models.VehicleListing{dup})
	agg := NewAggregator(NewShowroomProvider(), second)

	results, err := agg.Search(context.Background(), Criteria{Make: "Ferrari", Model: "488"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("duplicate listing not collapsed: got %d results", len(results))
	}
}

func TestAggregatorSurvivesProviderFailure(t *testing.T) {
	agg := NewAggregator(failingProvider{}, NewShowroomProvider())
	results, err := agg.Search(context.Background(), Criteria{Make: "Porsche"})
	if err != nil {
		t.Fatalf("Search must not fail when one provider fails: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected results from the healthy provider")
	}
}

func TestCriteriaMileageFilter(t *testing.T) {
	agg := NewAggregator(NewShowroomProvider())
	results, err := agg.Search(context.Background(), Criteria{Make: "Porsche", MaxMileage: 10000})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, l := range results {
		if l.Mileage > 10000 {
			t.Errorf("mileage filter leaked %+v", l)
		}
	}
}

func TestDirectoryLimitAndLocation(t *testing.T) {
	d := NewStaticDirectory()
	providers, err := d.Find(context.Background(), "London", 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(providers) != DefaultProviderLimit {
		t.Fatalf("expected %d providers, got %d", DefaultProviderLimit, len(providers))
	}
	if providers[0].Location != "London" {
		t.Errorf("location match not preferred: %+v", providers[0])
	}
	if providers[0].Rating < providers[1].Rating && providers[1].Location == "London" {
		t.Errorf("providers not rating-sorted: %+v", providers[:2])
	}
}

func TestDirectoryPostcodeResolvesCity(t *testing.T) {
	d := NewStaticDirectory()

	providers, err := d.Find(context.Background(), "SW1A 1AA", 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if providers[0].Location != "London" || providers[1].Location != "London" {
		t.Errorf("London postcode should rank London workshops first: %+v", providers[:2])
	}
	if providers[0].Rating < providers[1].Rating {
		t.Errorf("matched providers not rating-sorted: %+v", providers[:2])
	}

	providers, err = d.Find(context.Background(), "M1 4BT", 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if providers[0].Location != "Manchester" {
		t.Errorf("Manchester postcode should rank Manchester first: %+v", providers[0])
	}

	// Unknown postcode areas fall back to the pure rating order.
	providers, err = d.Find(context.Background(), "EH1 1YZ", 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if providers[0].ID != "ws-001" {
		t.Errorf("unknown area should leave rating order intact: %+v", providers[0])
	}
}

func TestCityForLocation(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"SW1A 1AA", "London"},
		{"ec2a 4bx", "London"},
		{"M1 4BT", "Manchester"},
		{"B15 2TT", "Birmingham"},
		{"BS1 5TR", "Bristol"},
		{"London", "London"},
		{"  Bristol ", "Bristol"},
		{"EH1 1YZ", "EH1 1YZ"},
		{"", ""},
	}
	for _, c := range cases {
		if got := cityForLocation(c.in); got != c.want {
			t.Errorf("cityForLocation(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
