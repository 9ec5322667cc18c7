package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/extract"
	"github.com/RoadAtlas/DealFlow/internal/finance"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/search"
)

// Illustration defaults used when the customer has not given figures. The
// comparison is indicative; exact terms are agreed with the sales team.
const (
	DefaultDepositFraction   = 0.10
	DefaultResidualFraction  = 0.40
	DefaultBalloonFraction   = 0.20
	DefaultAnnualRatePercent = 7.9
	DefaultTermMonths        = 48
)

// MaxSearchResults caps how many listings are offered per search so a
// numbered choice stays readable.
const MaxSearchResults = 5

// acquisitionMachine drives the vehicle purchase funnel:
// vehicle_search -> vehicle_selection -> customer_info -> ready.
type acquisitionMachine struct {
	marketplace *search.Aggregator
}

func (m *acquisitionMachine) start(state *models.SessionState) {
	state.ActiveDomain = models.DomainAcquisition
	state.Stage = models.StageVehicleSearch
	state.Acquisition = &models.AcquisitionSlots{}
}

// apply merges this turn's signals into the slots. Merges are monotone: a
// turn that lacks a fact never clears a previously captured one.
func (m *acquisitionMachine) apply(state *models.SessionState, signals []extract.Signal) {
	slots := state.Acquisition
	for _, s := range signals {
		switch v := s.(type) {
		case extract.VehicleFact:
			if slots.Selected == nil {
				slots.Query.Merge(models.VehicleQuery{Make: v.Make, Model: v.Model, Year: v.Year, Mileage: v.Mileage})
			}
		case extract.ContactFact:
			slots.Contact.Merge(models.ContactInfo{Name: v.Name, Email: v.Email, Phone: v.Phone, Postcode: v.Postcode})
		case extract.OptionChoice:
			if state.Stage == models.StageVehicleSelection && v.Index >= 1 && v.Index <= len(slots.SearchResults) {
				chosen := slots.SearchResults[v.Index-1]
				slots.Selected = &chosen
			}
		case extract.FinanceFact:
			slots.FinanceProduct = v.Product
		}
	}
}

// advance cascades through the funnel as far as the filled slots allow and
// returns the prompt for the stage where progress stops. An empty reply
// means the funnel is ready.
func (m *acquisitionMachine) advance(ctx context.Context, state *models.SessionState) (string, error) {
	slots := state.Acquisition
	for {
		switch state.Stage {
		case models.StageVehicleSearch:
			if slots.Query.Make == "" {
				return "What are you looking for? A make is enough to get started; a model or year narrows it down.", nil
			}
			results, err := m.marketplace.Search(ctx, search.Criteria{
				Make:       slots.Query.Make,
				Model:      slots.Query.Model,
				Year:       slots.Query.Year,
				MaxMileage: slots.Query.Mileage,
			})
			if err != nil {
				return "", fmt.Errorf("marketplace search failed: %w", err)
			}
			if len(results) == 0 {
				// Stay here; loosen the model filter so a retry can widen.
				slots.Query.Model = ""
				return fmt.Sprintf("I couldn't find a %s matching that. Could you try a different model or year?", slots.Query.Make), nil
			}
			if len(results) > MaxSearchResults {
				results = results[:MaxSearchResults]
			}
			slots.SearchResults = results
			state.Stage = models.StageVehicleSelection
			slog.Debug("Acquisition advanced to selection", "sessionID", state.SessionID, "results", len(results))

		case models.StageVehicleSelection:
			if slots.Selected == nil {
				return formatListings(slots.SearchResults), nil
			}
			if len(slots.Quotes) == 0 {
				quotes, err := compareForPrice(slots.Selected.Price)
				if err != nil {
					return "", fmt.Errorf("finance comparison failed: %w", err)
				}
				slots.Quotes = quotes
			}
			state.Stage = models.StageCustomerInfo
			slog.Debug("Acquisition advanced to customer info", "sessionID", state.SessionID, "selected", slots.Selected.ID)

		case models.StageCustomerInfo:
			if !slots.Contact.Complete() {
				prompt := contactPrompt(slots.Contact)
				if len(slots.Quotes) > 0 {
					return formatQuotes(slots.Selected, slots.Quotes) + "\n\n" + prompt, nil
				}
				return prompt, nil
			}
			state.Stage = models.StageReady

		case models.StageReady:
			return "", nil

		default:
			return "", fmt.Errorf("acquisition funnel in unknown stage %q", state.Stage)
		}
	}
}

// compareForPrice runs the four-product comparison with illustration
// defaults scaled to the vehicle price.
func compareForPrice(price float64) ([]models.FinanceQuote, error) {
	return finance.Compare(finance.CompareInputs{
		Price:             price,
		Deposit:           price * DefaultDepositFraction,
		Residual:          price * DefaultResidualFraction,
		Balloon:           price * DefaultBalloonFraction,
		AnnualRatePercent: DefaultAnnualRatePercent,
		TermMonths:        DefaultTermMonths,
	})
}

func formatListings(listings []models.VehicleListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d matches:\n", len(listings))
	for i, l := range listings {
		fmt.Fprintf(&b, "%d. %d %s %s — £%.0f, %d miles, %s\n", i+1, l.Year, l.Make, l.Model, l.Price, l.Mileage, l.Location)
	}
	b.WriteString("Reply with a number to pick one.")
	return b.String()
}

func formatQuotes(selected *models.VehicleListing, quotes []models.FinanceQuote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Great choice — the %d %s %s. Indicative monthly payments over %d months:\n",
		selected.Year, selected.Make, selected.Model, DefaultTermMonths)
	for _, q := range quotes {
		fmt.Fprintf(&b, "• %s: £%.2f/month (total £%.2f)\n", q.ProductName, q.MonthlyPayment, q.TotalCost)
	}
	b.WriteString("You can name a finance option now or sort it out later.")
	return b.String()
}

func contactPrompt(contact models.ContactInfo) string {
	if contact.Name == "" && contact.Email == "" && contact.Phone == "" {
		return "Could I take your name and an email or phone number to put the order together?"
	}
	if contact.Name == "" {
		return "And your name, please?"
	}
	return fmt.Sprintf("Thanks %s — and an email or phone number to reach you on?", contact.Name)
}
