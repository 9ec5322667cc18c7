package search

import (
	"context"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// StaticProvider serves a fixed inventory. It backs deployments that have no
// live marketplace feed and all of the tests.
type StaticProvider struct {
	name      string
	inventory []models.VehicleListing
}

// NewStaticProvider creates a provider over the given inventory.
func NewStaticProvider(name string, inventory []models.VehicleListing) *StaticProvider {
	return &StaticProvider{name: name, inventory: inventory}
}

// NewShowroomProvider returns the built-in RoadAtlas showroom inventory.
func NewShowroomProvider() *StaticProvider {
	return NewStaticProvider("showroom", showroomInventory)
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Search(ctx context.Context, criteria Criteria) ([]models.VehicleListing, error) {
	var results []models.VehicleListing
	for _, l := range p.inventory {
		if criteria.Matches(l) {
			results = append(results, l)
		}
	}
	return results, nil
}

var showroomInventory = []models.VehicleListing{
	{ID: "sr-001", Make: "Ferrari", Model: "488 GTB", Year: 2019, Price: 189950, Mileage: 8200, Location: "London", Dealer: "RoadAtlas Mayfair"},
	{ID: "sr-002", Make: "Ferrari", Model: "Portofino", Year: 2019, Price: 154500, Mileage: 11400, Location: "Manchester", Dealer: "RoadAtlas North"},
	{ID: "sr-003", Make: "Ferrari", Model: "812 Superfast", Year: 2019, Price: 239000, Mileage: 5600, Location: "Birmingham", Dealer: "RoadAtlas Midlands"},
	{ID: "sr-004", Make: "Ferrari", Model: "Roma", Year: 2021, Price: 172000, Mileage: 6100, Location: "London", Dealer: "RoadAtlas Mayfair"},
	{ID: "sr-005", Make: "Lamborghini", Model: "Huracan", Year: 2020, Price: 198500, Mileage: 7400, Location: "Leeds", Dealer: "RoadAtlas North"},
	{ID: "sr-006", Make: "Porsche", Model: "911 Carrera", Year: 2019, Price: 82500, Mileage: 18900, Location: "Bristol", Dealer: "RoadAtlas West"},
	{ID: "sr-007", Make: "Porsche", Model: "911 Turbo S", Year: 2021, Price: 159000, Mileage: 4200, Location: "London", Dealer: "RoadAtlas Mayfair"},
	{ID: "sr-008", Make: "Aston Martin", Model: "DB11", Year: 2018, Price: 112000, Mileage: 21500, Location: "Edinburgh", Dealer: "RoadAtlas Scotland"},
	{ID: "sr-009", Make: "Bentley", Model: "Continental GT", Year: 2020, Price: 144750, Mileage: 9800, Location: "Manchester", Dealer: "RoadAtlas North"},
	{ID: "sr-010", Make: "McLaren", Model: "720S", Year: 2019, Price: 184900, Mileage: 6900, Location: "London", Dealer: "RoadAtlas Mayfair"},
	{ID: "sr-011", Make: "Rolls-Royce", Model: "Ghost", Year: 2021, Price: 255000, Mileage: 3800, Location: "London", Dealer: "RoadAtlas Mayfair"},
	{ID: "sr-012", Make: "Land Rover", Model: "Range Rover SVAutobiography", Year: 2022, Price: 168000, Mileage: 5200, Location: "Birmingham", Dealer: "RoadAtlas Midlands"},
	{ID: "sr-013", Make: "Audi", Model: "R8 V10", Year: 2020, Price: 118500, Mileage: 12600, Location: "Leeds", Dealer: "RoadAtlas North"},
	{ID: "sr-014", Make: "Mercedes-Benz", Model: "AMG GT", Year: 2019, Price: 97500, Mileage: 15300, Location: "Bristol", Dealer: "RoadAtlas West"},
	{ID: "sr-015", Make: "BMW", Model: "M8 Competition", Year: 2021, Price: 89900, Mileage: 8700, Location: "Manchester", Dealer: "RoadAtlas North"},
}
