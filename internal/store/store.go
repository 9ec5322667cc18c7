// Package store provides storage backends for DealFlow.
//
// It persists conversation sessions and the business records produced by
// completed funnels. SQLite and PostgreSQL backends share one interface; an
// in-memory store backs tests.
package store

import (
	"strings"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// Store is the persistent record store consumed by the session manager and
// the transaction manager.
type Store interface {
	// SaveSession inserts or replaces a session snapshot.
	SaveSession(session models.SessionState) error
	// GetSession returns the session or (nil, nil) when absent.
	GetSession(sessionID string) (*models.SessionState, error)
	// DeleteSession removes a session; deleting an absent session is not an error.
	DeleteSession(sessionID string) error
	// DeleteExpiredSessions removes sessions whose last activity predates
	// cutoff and reports how many were removed.
	DeleteExpiredSessions(cutoff time.Time) (int, error)

	// SaveOrder inserts or replaces an order record.
	SaveOrder(order models.Order) error
	// GetOrder returns the order or (nil, nil) when absent.
	GetOrder(orderID string) (*models.Order, error)

	// SaveAppointment inserts or replaces an appointment record.
	SaveAppointment(appointment models.Appointment) error
	// GetAppointment returns the appointment or (nil, nil) when absent.
	GetAppointment(appointmentID string) (*models.Appointment, error)

	// SaveListing inserts or replaces a listing record.
	SaveListing(listing models.Listing) error
	// GetListing returns the listing or (nil, nil) when absent.
	GetListing(listingID string) (*models.Listing, error)
	// ListListings returns listings filtered by status (empty means all),
	// newest first, capped at limit when limit > 0.
	ListListings(status models.RecordStatus, limit int) ([]models.Listing, error)

	// Close releases the underlying resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option { return WithDSN(dsn) }

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option { return WithDSN(dsn) }

// DetectDSNType reports "postgres" for URL-style PostgreSQL connection
// strings and "sqlite3" otherwise (a bare path is a SQLite file).
func DetectDSNType(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=") || strings.Contains(lower, "dbname=") {
		return "postgres"
	}
	return "sqlite3"
}
