// Package models defines the persisted business records created by the
// transaction manager.
package models

import "time"

// RecordStatus represents the lifecycle status of a business record.
type RecordStatus string

const (
	// RecordStatusPending indicates the record was created and awaits handling.
	RecordStatusPending RecordStatus = "pending"
	// RecordStatusConfirmed indicates the record has been confirmed by staff.
	RecordStatusConfirmed RecordStatus = "confirmed"
	// RecordStatusCompleted indicates the record reached its end state.
	RecordStatusCompleted RecordStatus = "completed"
	// RecordStatusCancelled indicates the record was cancelled.
	RecordStatusCancelled RecordStatus = "cancelled"
)

// IsValidRecordStatus checks if the given record status is supported.
func IsValidRecordStatus(s RecordStatus) bool {
	switch s {
	case RecordStatusPending, RecordStatusConfirmed, RecordStatusCompleted, RecordStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a record may move from one status to
// another. Records are immutable after creation except for these
// transitions and append-only notes.
func CanTransition(from, to RecordStatus) bool {
	switch from {
	case RecordStatusPending:
		return to == RecordStatusConfirmed || to == RecordStatusCancelled
	case RecordStatusConfirmed:
		return to == RecordStatusCompleted || to == RecordStatusCancelled
	default:
		return false
	}
}

// RecordNote is one append-only note on a business record.
type RecordNote struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// Order is the business record produced by a completed acquisition funnel.
type Order struct {
	OrderID   string          `json:"order_id"`
	Status    RecordStatus    `json:"status"`
	Vehicle   VehicleListing  `json:"vehicle"`
	Customer  ContactInfo     `json:"customer"`
	Finance   *FinanceQuote   `json:"finance,omitempty"`
	Notes     []RecordNote    `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Appointment is the business record produced by a completed service funnel.
type Appointment struct {
	AppointmentID string          `json:"appointment_id"`
	Status        RecordStatus    `json:"status"`
	Vehicle       VehicleQuery    `json:"vehicle"`
	ServiceType   string          `json:"service_type"`
	Provider      ServiceProvider `json:"provider"`
	Scheduled     time.Time       `json:"scheduled"`
	Customer      ContactInfo     `json:"customer"`
	Notes         []RecordNote    `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ListingDuration is how long a consignment listing stays live.
const ListingDuration = 60 * 24 * time.Hour

// Listing is the business record produced by a completed consignment funnel.
type Listing struct {
	ListingID string       `json:"listing_id"`
	Status    RecordStatus `json:"status"`
	Make      string       `json:"make"`
	Model     string       `json:"model"`
	Year      int          `json:"year"`
	Color     string       `json:"color,omitempty"`
	Mileage   int          `json:"mileage"`
	Reason    string       `json:"reason,omitempty"`
	Owner     ContactInfo  `json:"owner"`
	Notes     []RecordNote `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}
