package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/extract"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/search"
)

// serviceMachine drives the service booking funnel: vehicle_info ->
// service_type -> svc_customer_info -> provider_selection ->
// appointment_time -> ready.
type serviceMachine struct {
	directory search.Directory
}

func (m *serviceMachine) start(state *models.SessionState) {
	state.ActiveDomain = models.DomainService
	state.Stage = models.StageVehicleInfo
	state.Service = &models.ServiceSlots{}
}

func (m *serviceMachine) apply(state *models.SessionState, signals []extract.Signal) {
	slots := state.Service
	for _, s := range signals {
		switch v := s.(type) {
		case extract.VehicleFact:
			slots.Vehicle.Merge(models.VehicleQuery{Make: v.Make, Model: v.Model, Year: v.Year, Mileage: v.Mileage})
		case extract.ServiceFact:
			if slots.ServiceType == "" {
				slots.ServiceType = v.ServiceType
			}
		case extract.ContactFact:
			slots.Contact.Merge(models.ContactInfo{Name: v.Name, Email: v.Email, Phone: v.Phone, Postcode: v.Postcode})
		case extract.OptionChoice:
			if state.Stage == models.StageProviderSelection && v.Index >= 1 && v.Index <= len(slots.Providers) {
				chosen := slots.Providers[v.Index-1]
				slots.SelectedProvider = &chosen
			}
		case extract.DateTimeFact:
			when := v.Value
			slots.Appointment = &when
		}
	}
}

func (m *serviceMachine) advance(ctx context.Context, state *models.SessionState) (string, error) {
	slots := state.Service
	for {
		switch state.Stage {
		case models.StageVehicleInfo:
			if slots.Vehicle.Make == "" {
				return "Which vehicle needs attention? The make and model is all I need.", nil
			}
			state.Stage = models.StageServiceType

		case models.StageServiceType:
			if slots.ServiceType == "" {
				return "What does it need — an MOT, a full service, brakes, tyres, or something else?", nil
			}
			state.Stage = models.StageSvcCustomerInfo

		case models.StageSvcCustomerInfo:
			if !slots.Contact.Complete() {
				return contactPrompt(slots.Contact), nil
			}
			if len(slots.Providers) == 0 {
				providers, err := m.directory.Find(ctx, slots.Contact.Postcode, search.DefaultProviderLimit)
				if err != nil {
					return "", fmt.Errorf("provider lookup failed: %w", err)
				}
				slots.Providers = providers
			}
			state.Stage = models.StageProviderSelection
			slog.Debug("Service advanced to provider selection", "sessionID", state.SessionID, "providers", len(slots.Providers))

		case models.StageProviderSelection:
			if slots.SelectedProvider == nil {
				return formatProviders(slots.Providers), nil
			}
			state.Stage = models.StageAppointmentTime

		case models.StageAppointmentTime:
			if slots.Appointment == nil {
				return fmt.Sprintf("When suits you for the %s? Something like \"tomorrow at 2pm\" or \"15/04/2026\" works.", slots.ServiceType), nil
			}
			state.Stage = models.StageReady

		case models.StageReady:
			return "", nil

		default:
			return "", fmt.Errorf("service funnel in unknown stage %q", state.Stage)
		}
	}
}

func formatProviders(providers []models.ServiceProvider) string {
	var b strings.Builder
	b.WriteString("Here are the workshops I can book:\n")
	for i, p := range providers {
		fmt.Fprintf(&b, "%d. %s (%s", i+1, p.Name, p.Location)
		if p.Rating > 0 {
			fmt.Fprintf(&b, ", rated %.1f", p.Rating)
		}
		b.WriteString(")\n")
	}
	b.WriteString("Reply with a number to pick one.")
	return b.String()
}
