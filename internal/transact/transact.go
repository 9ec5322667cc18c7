// Package transact turns a ready funnel into a persisted business record.
//
// Create is the single gate through which orders, appointments and listings
// come into existence. It validates the slots, mints the record ID, persists
// the record, fires a best-effort staff notification and marks the funnel so
// a retried turn can never create a duplicate.
package transact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/notify"
	"github.com/RoadAtlas/DealFlow/internal/store"
	"github.com/RoadAtlas/DealFlow/internal/util"
)

// Record ID prefixes per domain.
const (
	OrderPrefix       = "ORD"
	AppointmentPrefix = "SVC"
	ListingPrefix     = "LST"
)

// dealerCode appears in every record ID.
const dealerCode = "RA"

// IncompleteError reports which required fields still block record creation.
// Missing holds customer-facing display names.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "cannot create record, missing: " + strings.Join(e.Missing, ", ")
}

// Result describes a created (or previously created) record.
type Result struct {
	RecordID         string
	Domain           models.Domain
	Confirmation     string
	AlreadyExisted   bool
	NotificationSent bool
}

// Opts holds configuration options for the transaction manager.
type Opts struct {
	StaffRecipient string
	Now            func() time.Time
}

// Option defines a configuration option for the transaction manager.
type Option func(*Opts)

// WithStaffRecipient sets the phone number that receives staff notifications.
func WithStaffRecipient(recipient string) Option {
	return func(o *Opts) { o.StaffRecipient = recipient }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *Opts) { o.Now = now }
}

// Manager creates business records from ready sessions.
type Manager struct {
	store    store.Store
	notifier notify.Notifier
	staff    string
	now      func() time.Time
}

// NewManager creates a transaction manager.
func NewManager(st store.Store, notifier notify.Notifier, opts ...Option) *Manager {
	cfg := Opts{Now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{store: st, notifier: notifier, staff: cfg.StaffRecipient, now: cfg.Now}
}

// NewRecordID mints an ID like ORD-RA-2026-7GK2P.
func NewRecordID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%s", prefix, dealerCode, now.Year(), util.GenerateRecordSuffix())
}

// MissingFields returns the customer-facing names of the required fields the
// active funnel still lacks, in a stable order. An empty result means the
// funnel is ready.
func MissingFields(state *models.SessionState) []string {
	var missing []string
	switch state.ActiveDomain {
	case models.DomainAcquisition:
		slots := state.Acquisition
		if slots == nil {
			return []string{"Vehicle selection", "Name", "Email or phone"}
		}
		if slots.Selected == nil {
			missing = append(missing, "Vehicle selection")
		}
		if slots.Contact.Name == "" {
			missing = append(missing, "Name")
		}
		if slots.Contact.Email == "" && slots.Contact.Phone == "" {
			missing = append(missing, "Email or phone")
		}
	case models.DomainService:
		slots := state.Service
		if slots == nil {
			return []string{"Vehicle details", "Service type", "Name", "Email or phone", "Service provider", "Appointment date"}
		}
		if slots.Vehicle.Make == "" {
			missing = append(missing, "Vehicle details")
		}
		if slots.ServiceType == "" {
			missing = append(missing, "Service type")
		}
		if slots.Contact.Name == "" {
			missing = append(missing, "Name")
		}
		if slots.Contact.Email == "" && slots.Contact.Phone == "" {
			missing = append(missing, "Email or phone")
		}
		if slots.SelectedProvider == nil {
			missing = append(missing, "Service provider")
		}
		if slots.Appointment == nil {
			missing = append(missing, "Appointment date")
		}
	case models.DomainConsignment:
		slots := state.Consignment
		if slots == nil {
			return []string{"Make", "Model", "Year", "Mileage", "Reason for sale", "Name", "Email or phone"}
		}
		if slots.Make == "" {
			missing = append(missing, "Make")
		}
		if slots.Model == "" {
			missing = append(missing, "Model")
		}
		if slots.Year == 0 {
			missing = append(missing, "Year")
		}
		if slots.Mileage == 0 {
			missing = append(missing, "Mileage")
		}
		if slots.Reason == "" {
			missing = append(missing, "Reason for sale")
		}
		if slots.Contact.Name == "" {
			missing = append(missing, "Name")
		}
		if slots.Contact.Email == "" && slots.Contact.Phone == "" {
			missing = append(missing, "Email or phone")
		}
	}
	return missing
}

// Create validates the active funnel and produces its business record
// exactly once. A second call for the same funnel returns the original
// record ID without touching the store. Persistence failure is fatal and
// leaves the funnel untouched; notification failure is not.
func (m *Manager) Create(ctx context.Context, state *models.SessionState) (*Result, error) {
	if !models.IsValidDomain(state.ActiveDomain) {
		return nil, fmt.Errorf("no active funnel for session %s", state.SessionID)
	}

	if state.RecordCreated() {
		result := &Result{Domain: state.ActiveDomain, AlreadyExisted: true}
		switch state.ActiveDomain {
		case models.DomainAcquisition:
			result.RecordID = state.Acquisition.RecordID
		case models.DomainService:
			result.RecordID = state.Service.RecordID
		case models.DomainConsignment:
			result.RecordID = state.Consignment.RecordID
		}
		result.Confirmation = fmt.Sprintf("Your reference is %s. We already have everything we need.", result.RecordID)
		slog.Debug("Transact Create skipped, record exists", "sessionID", state.SessionID, "recordID", result.RecordID)
		return result, nil
	}

	if missing := MissingFields(state); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	now := m.now()
	var result *Result
	var err error
	switch state.ActiveDomain {
	case models.DomainAcquisition:
		result, err = m.createOrder(ctx, state, now)
	case models.DomainService:
		result, err = m.createAppointment(ctx, state, now)
	case models.DomainConsignment:
		result, err = m.createListing(ctx, state, now)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("Transact Create succeeded", "sessionID", state.SessionID, "domain", state.ActiveDomain, "recordID", result.RecordID)
	return result, nil
}

func (m *Manager) createOrder(ctx context.Context, state *models.SessionState, now time.Time) (*Result, error) {
	slots := state.Acquisition
	order := models.Order{
		OrderID:   NewRecordID(OrderPrefix, now),
		Status:    models.RecordStatusPending,
		Vehicle:   *slots.Selected,
		Customer:  slots.Contact,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if q := selectedQuote(slots); q != nil {
		order.Finance = q
	}
	if err := m.store.SaveOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	slots.RecordCreated = true
	slots.RecordID = order.OrderID

	delivered := m.notifier.Notify(ctx, m.staff,
		"New order {{id}}: {{vehicle}} for {{name}}",
		map[string]string{
			"id":      order.OrderID,
			"vehicle": describeListing(order.Vehicle),
			"name":    order.Customer.Name,
		})

	confirmation := fmt.Sprintf("Your order is confirmed. Reference %s: %s. Our team will be in touch to arrange payment and delivery.",
		order.OrderID, describeListing(order.Vehicle))
	if order.Finance != nil {
		confirmation += fmt.Sprintf(" Finance: %s at £%.2f/month over %d months.",
			order.Finance.ProductName, order.Finance.MonthlyPayment, order.Finance.TermMonths)
	}
	return &Result{RecordID: order.OrderID, Domain: models.DomainAcquisition, Confirmation: confirmation, NotificationSent: delivered}, nil
}

func (m *Manager) createAppointment(ctx context.Context, state *models.SessionState, now time.Time) (*Result, error) {
	slots := state.Service
	appointment := models.Appointment{
		AppointmentID: NewRecordID(AppointmentPrefix, now),
		Status:        models.RecordStatusPending,
		Vehicle:       slots.Vehicle,
		ServiceType:   slots.ServiceType,
		Provider:      *slots.SelectedProvider,
		Scheduled:     *slots.Appointment,
		Customer:      slots.Contact,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.store.SaveAppointment(appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	slots.RecordCreated = true
	slots.RecordID = appointment.AppointmentID

	delivered := m.notifier.Notify(ctx, m.staff,
		"New booking {{id}}: {{service}} at {{provider}} on {{when}}",
		map[string]string{
			"id":       appointment.AppointmentID,
			"service":  appointment.ServiceType,
			"provider": appointment.Provider.Name,
			"when":     appointment.Scheduled.Format("Mon, 2 Jan 2006 at 15:04"),
		})

	confirmation := fmt.Sprintf("Your %s is booked at %s on %s. Reference %s.",
		appointment.ServiceType, appointment.Provider.Name,
		appointment.Scheduled.Format("Monday, 2 January 2006 at 15:04"), appointment.AppointmentID)
	return &Result{RecordID: appointment.AppointmentID, Domain: models.DomainService, Confirmation: confirmation, NotificationSent: delivered}, nil
}

func (m *Manager) createListing(ctx context.Context, state *models.SessionState, now time.Time) (*Result, error) {
	slots := state.Consignment
	listing := models.Listing{
		ListingID: NewRecordID(ListingPrefix, now),
		Status:    models.RecordStatusPending,
		Make:      slots.Make,
		Model:     slots.Model,
		Year:      slots.Year,
		Color:     slots.Color,
		Mileage:   slots.Mileage,
		Reason:    slots.Reason,
		Owner:     slots.Contact,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(models.ListingDuration),
	}
	if err := m.store.SaveListing(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	slots.RecordCreated = true
	slots.RecordID = listing.ListingID

	delivered := m.notifier.Notify(ctx, m.staff,
		"New listing {{id}}: {{year}} {{make}} {{model}}, {{mileage}} miles",
		map[string]string{
			"id":      listing.ListingID,
			"year":    fmt.Sprintf("%d", listing.Year),
			"make":    listing.Make,
			"model":   listing.Model,
			"mileage": fmt.Sprintf("%d", listing.Mileage),
		})

	confirmation := fmt.Sprintf("Your %d %s %s is listed for sale. Reference %s. The listing runs for 60 days and our valuation team will contact you.",
		listing.Year, listing.Make, listing.Model, listing.ListingID)
	return &Result{RecordID: listing.ListingID, Domain: models.DomainConsignment, Confirmation: confirmation, NotificationSent: delivered}, nil
}

// selectedQuote returns the quote matching the chosen finance product, or
// nil when the customer pays cash or never picked one.
func selectedQuote(slots *models.AcquisitionSlots) *models.FinanceQuote {
	if slots.FinanceProduct == "" || strings.EqualFold(slots.FinanceProduct, "cash") {
		return nil
	}
	for i := range slots.Quotes {
		if strings.EqualFold(slots.Quotes[i].ProductName, slots.FinanceProduct) {
			return &slots.Quotes[i]
		}
	}
	return nil
}

func describeListing(l models.VehicleListing) string {
	return fmt.Sprintf("%d %s %s at £%.2f", l.Year, l.Make, l.Model, l.Price)
}
