package dialog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/extract"
	"github.com/RoadAtlas/DealFlow/internal/models"
)

// bareNumberRe accepts a message that is nothing but a number, for the
// mileage answer during vehicle_details.
var bareNumberRe = regexp.MustCompile(`^\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\s*(?:miles|mi)?\s*$`)

// consignmentMachine drives the sell-your-vehicle funnel: vehicle_details ->
// reason_for_sale -> contact_info -> ready.
type consignmentMachine struct{}

func (m *consignmentMachine) start(state *models.SessionState) {
	state.ActiveDomain = models.DomainConsignment
	state.Stage = models.StageVehicleDetails
	state.Consignment = &models.ConsignmentSlots{}
}

// apply merges signals plus the stage-bound raw captures: a bare number
// during vehicle_details is the mileage, and during reason_for_sale the
// whole utterance is the reason (no detector can parse free-form prose).
func (m *consignmentMachine) apply(state *models.SessionState, signals []extract.Signal, utterance string) {
	slots := state.Consignment
	for _, s := range signals {
		switch v := s.(type) {
		case extract.VehicleFact:
			if v.Make != "" && slots.Make == "" {
				slots.Make = v.Make
			}
			if v.Model != "" && slots.Model == "" {
				slots.Model = v.Model
			}
			if v.Year != 0 && slots.Year == 0 {
				slots.Year = v.Year
			}
			if v.Mileage != 0 && slots.Mileage == 0 {
				slots.Mileage = v.Mileage
			}
		case extract.ContactFact:
			slots.Contact.Merge(models.ContactInfo{Name: v.Name, Email: v.Email, Phone: v.Phone, Postcode: v.Postcode})
		}
	}

	if state.Stage == models.StageVehicleDetails && slots.Mileage == 0 {
		if m := bareNumberRe.FindStringSubmatch(utterance); m != nil {
			if miles, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil && miles > 0 {
				slots.Mileage = miles
			}
		}
	}

	if state.Stage == models.StageReasonForSale && slots.Reason == "" {
		if trimmed := strings.TrimSpace(utterance); trimmed != "" && !extract.IsBareGreeting(trimmed) {
			slots.Reason = trimmed
		}
	}
}

func (m *consignmentMachine) advance(ctx context.Context, state *models.SessionState) (string, error) {
	slots := state.Consignment
	for {
		switch state.Stage {
		case models.StageVehicleDetails:
			if missing := missingVehicleDetails(slots); len(missing) > 0 {
				return fmt.Sprintf("Tell me about the car you're selling — I still need the %s.", joinAnd(missing)), nil
			}
			state.Stage = models.StageReasonForSale

		case models.StageReasonForSale:
			if slots.Reason == "" {
				return "Good to know the car. What's prompting the sale?", nil
			}
			state.Stage = models.StageContactInfo

		case models.StageContactInfo:
			if !slots.Contact.Complete() {
				return contactPrompt(slots.Contact), nil
			}
			state.Stage = models.StageReady

		case models.StageReady:
			return "", nil

		default:
			return "", fmt.Errorf("consignment funnel in unknown stage %q", state.Stage)
		}
	}
}

func missingVehicleDetails(slots *models.ConsignmentSlots) []string {
	var missing []string
	if slots.Make == "" {
		missing = append(missing, "make")
	}
	if slots.Model == "" {
		missing = append(missing, "model")
	}
	if slots.Year == 0 {
		missing = append(missing, "year")
	}
	if slots.Mileage == 0 {
		missing = append(missing, "mileage")
	}
	return missing
}

func joinAnd(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}
