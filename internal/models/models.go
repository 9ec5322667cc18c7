// Package models defines the core data structures for DealFlow.
//
// It includes session state, per-domain slot structures, finance quotes and
// the persisted business records, which are shared across modules.
package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Domain identifies which funnel a session is working through.
type Domain string

const (
	// DomainNone means no funnel is active for the session.
	DomainNone Domain = ""
	// DomainAcquisition is the vehicle purchase funnel.
	DomainAcquisition Domain = "acquisition"
	// DomainService is the service booking funnel.
	DomainService Domain = "service"
	// DomainConsignment is the sell-your-vehicle funnel.
	DomainConsignment Domain = "consignment"
)

// IsValidDomain checks if the given domain is one of the three funnels.
func IsValidDomain(d Domain) bool {
	switch d {
	case DomainAcquisition, DomainService, DomainConsignment:
		return true
	default:
		return false
	}
}

// Stage identifies the current position in a domain's state machine.
// Stage values are only meaningful relative to the session's ActiveDomain.
type Stage string

const (
	// StageNone is the stage of a session with no active funnel.
	StageNone Stage = ""
	// StageReady is the shared terminal stage: every required slot is
	// filled and the readiness gate may fire.
	StageReady Stage = "ready"
	// StageCompleted is a pseudo-stage reached only via a successful
	// record creation; it is reported to callers but never persisted
	// (the session is cleared instead).
	StageCompleted Stage = "completed"

	// Acquisition funnel stages.
	StageVehicleSearch    Stage = "vehicle_search"
	StageVehicleSelection Stage = "vehicle_selection"
	StageCustomerInfo     Stage = "customer_info"

	// Service booking funnel stages.
	StageVehicleInfo       Stage = "vehicle_info"
	StageServiceType       Stage = "service_type"
	StageSvcCustomerInfo   Stage = "svc_customer_info"
	StageProviderSelection Stage = "provider_selection"
	StageAppointmentTime   Stage = "appointment_time"

	// Consignment funnel stages.
	StageVehicleDetails Stage = "vehicle_details"
	StageReasonForSale  Stage = "reason_for_sale"
	StageContactInfo    Stage = "contact_info"
)

// Error variables for better error handling and testability
var (
	ErrEmptySessionID  = errors.New("session ID cannot be empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrEmptyRecipient  = errors.New("recipient cannot be empty")
	ErrEmptyBody       = errors.New("message body cannot be empty")
)

// ContactInfo holds the customer contact slots shared by all funnels.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Complete reports whether the contact details satisfy the readiness gate:
// a name plus at least one way to reach the customer.
func (c ContactInfo) Complete() bool {
	return c.Name != "" && (c.Email != "" || c.Phone != "")
}

// Merge overwrites fields with non-empty values from other. Filled fields
// are never cleared by an empty extraction.
func (c *ContactInfo) Merge(other ContactInfo) {
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Email != "" {
		c.Email = other.Email
	}
	if other.Phone != "" {
		c.Phone = other.Phone
	}
	if other.Postcode != "" {
		c.Postcode = other.Postcode
	}
}

// VehicleQuery holds the vehicle facts a user has stated so far.
type VehicleQuery struct {
	Make    string `json:"make,omitempty"`
	Model   string `json:"model,omitempty"`
	Year    int    `json:"year,omitempty"`
	Mileage int    `json:"mileage,omitempty"`
}

// Merge overwrites fields with non-zero values from other.
func (q *VehicleQuery) Merge(other VehicleQuery) {
	if other.Make != "" {
		q.Make = other.Make
	}
	if other.Model != "" {
		q.Model = other.Model
	}
	if other.Year != 0 {
		q.Year = other.Year
	}
	if other.Mileage != 0 {
		q.Mileage = other.Mileage
	}
}

// VehicleListing is one marketplace search result.
type VehicleListing struct {
	ID       string  `json:"id"`
	Make     string  `json:"make"`
	Model    string  `json:"model"`
	Year     int     `json:"year"`
	Price    float64 `json:"price"`
	Mileage  int     `json:"mileage"`
	Location string  `json:"location"`
	Dealer   string  `json:"dealer,omitempty"`
}

// DedupKey returns the case-insensitive identity used to collapse the same
// vehicle advertised by multiple sources.
func (l VehicleListing) DedupKey() string {
	return strings.ToLower(strings.Join([]string{
		l.Make, l.Model, strconv.Itoa(l.Year),
		strconv.FormatFloat(l.Price, 'f', 2, 64), l.Location,
	}, "|"))
}

// ServiceProvider is one bookable workshop or garage.
type ServiceProvider struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating,omitempty"`
}

// FinanceQuote is an immutable computed finance illustration. It has no
// identity and is recomputed rather than persisted on its own.
type FinanceQuote struct {
	ProductName       string  `json:"product_name"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalCost         float64 `json:"total_cost"`
	TermMonths        int     `json:"term_months"`
	Deposit           float64 `json:"deposit"`
	FinalPayment      float64 `json:"final_payment,omitempty"`
	TotalInterest     float64 `json:"total_interest"`
}

// AcquisitionSlots holds the purchase funnel's slot values. Cached search
// results and finance quotes live here so the idempotent side calls that
// produced them are not repeated.
type AcquisitionSlots struct {
	Query          VehicleQuery     `json:"query"`
	SearchResults  []VehicleListing `json:"search_results,omitempty"`
	Selected       *VehicleListing  `json:"selected,omitempty"`
	FinanceProduct string           `json:"finance_product,omitempty"`
	Quotes         []FinanceQuote   `json:"quotes,omitempty"`
	Contact        ContactInfo      `json:"contact"`
	RecordCreated  bool             `json:"record_created"`
	RecordID       string           `json:"record_id,omitempty"`
}

// ServiceSlots holds the service booking funnel's slot values.
type ServiceSlots struct {
	Vehicle          VehicleQuery      `json:"vehicle"`
	ServiceType      string            `json:"service_type,omitempty"`
	Contact          ContactInfo       `json:"contact"`
	Providers        []ServiceProvider `json:"providers,omitempty"`
	SelectedProvider *ServiceProvider  `json:"selected_provider,omitempty"`
	Appointment      *time.Time        `json:"appointment,omitempty"`
	RecordCreated    bool              `json:"record_created"`
	RecordID         string            `json:"record_id,omitempty"`
}

// ConsignmentSlots holds the sell-your-vehicle funnel's slot values.
type ConsignmentSlots struct {
	Make          string      `json:"make,omitempty"`
	Model         string      `json:"model,omitempty"`
	Year          int         `json:"year,omitempty"`
	Color         string      `json:"color,omitempty"`
	Mileage       int         `json:"mileage,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Contact       ContactInfo `json:"contact"`
	RecordCreated bool        `json:"record_created"`
	RecordID      string      `json:"record_id,omitempty"`
}

// TurnRecord is one past conversation turn kept in the session history.
type TurnRecord struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// MaxHistoryTurns bounds the session history window.
const MaxHistoryTurns = 40

// SessionState is the full per-conversation state. Exactly one domain's
// slot pointer is non-nil while a funnel is active; the others stay nil so
// domains cannot cross-contaminate each other's readiness checks.
type SessionState struct {
	SessionID    string            `json:"session_id"`
	ActiveDomain Domain            `json:"active_domain"`
	Stage        Stage             `json:"stage"`
	Acquisition  *AcquisitionSlots `json:"acquisition,omitempty"`
	Service      *ServiceSlots     `json:"service,omitempty"`
	Consignment  *ConsignmentSlots `json:"consignment,omitempty"`
	History      []TurnRecord      `json:"history,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

// NewSessionState creates a fresh session for the given ID.
func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID:    sessionID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Expired reports whether the session has been inactive beyond ttl.
func (s *SessionState) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.LastActiveAt) > ttl
}

// Touch updates the activity timestamp.
func (s *SessionState) Touch(now time.Time) {
	s.LastActiveAt = now
}

// ResetFunnel clears the active domain, stage and all slots while keeping
// the conversation history, so the next message starts a fresh funnel under
// the same session ID.
func (s *SessionState) ResetFunnel() {
	s.ActiveDomain = DomainNone
	s.Stage = StageNone
	s.Acquisition = nil
	s.Service = nil
	s.Consignment = nil
}

// AppendTurn records a turn in the bounded history window.
func (s *SessionState) AppendTurn(role, content string, at time.Time) {
	s.History = append(s.History, TurnRecord{Role: role, Content: content, At: at})
	if len(s.History) > MaxHistoryTurns {
		s.History = s.History[len(s.History)-MaxHistoryTurns:]
	}
}

// RecordCreated reports whether the active funnel already produced a record.
func (s *SessionState) RecordCreated() bool {
	switch s.ActiveDomain {
	case DomainAcquisition:
		return s.Acquisition != nil && s.Acquisition.RecordCreated
	case DomainService:
		return s.Service != nil && s.Service.RecordCreated
	case DomainConsignment:
		return s.Consignment != nil && s.Consignment.RecordCreated
	default:
		return false
	}
}
