// Package store provides storage backends for DealFlow.
//
// This file implements a PostgreSQL-backed store for sessions and business
// records.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/RoadAtlas/DealFlow/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) SaveSession(session models.SessionState) error {
	if session.SessionID == "" {
		return models.ErrEmptySessionID
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.SessionID, err)
	}
	_, err = s.db.Exec(`INSERT INTO sessions (session_id, state, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		session.SessionID, string(payload), session.CreatedAt, session.LastActiveAt)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "sessionID", session.SessionID)
		return fmt.Errorf("failed to save session %s: %w", session.SessionID, err)
	}
	slog.Debug("PostgresStore SaveSession succeeded", "sessionID", session.SessionID)
	return nil
}

func (s *PostgresStore) GetSession(sessionID string) (*models.SessionState, error) {
	var payload string
	err := s.db.QueryRow(`SELECT state FROM sessions WHERE session_id = $1`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}
	var session models.SessionState
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		slog.Error("PostgresStore GetSession unmarshal failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *PostgresStore) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpiredSessions(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		slog.Error("PostgresStore DeleteExpiredSessions failed", "error", err)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) SaveOrder(order models.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order %s: %w", order.OrderID, err)
	}
	_, err = s.db.Exec(`INSERT INTO orders (order_id, status, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		order.OrderID, string(order.Status), string(payload), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveOrder failed", "error", err, "orderID", order.OrderID)
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
	slog.Debug("PostgresStore SaveOrder succeeded", "orderID", order.OrderID, "status", order.Status)
	return nil
}

func (s *PostgresStore) GetOrder(orderID string) (*models.Order, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM orders WHERE order_id = $1`, orderID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetOrder query failed", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("failed to query order %s: %w", orderID, err)
	}
	var order models.Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", orderID, err)
	}
	return &order, nil
}

func (s *PostgresStore) SaveAppointment(appointment models.Appointment) error {
	payload, err := json.Marshal(appointment)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment %s: %w", appointment.AppointmentID, err)
	}
	_, err = s.db.Exec(`INSERT INTO appointments (appointment_id, status, scheduled_at, payload, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (appointment_id) DO UPDATE SET status = EXCLUDED.status, scheduled_at = EXCLUDED.scheduled_at, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		appointment.AppointmentID, string(appointment.Status), appointment.Scheduled, string(payload), appointment.CreatedAt, appointment.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveAppointment failed", "error", err, "appointmentID", appointment.AppointmentID)
		return fmt.Errorf("failed to save appointment %s: %w", appointment.AppointmentID, err)
	}
	slog.Debug("PostgresStore SaveAppointment succeeded", "appointmentID", appointment.AppointmentID)
	return nil
}

func (s *PostgresStore) GetAppointment(appointmentID string) (*models.Appointment, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM appointments WHERE appointment_id = $1`, appointmentID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetAppointment query failed", "error", err, "appointmentID", appointmentID)
		return nil, fmt.Errorf("failed to query appointment %s: %w", appointmentID, err)
	}
	var appointment models.Appointment
	if err := json.Unmarshal([]byte(payload), &appointment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal appointment %s: %w", appointmentID, err)
	}
	return &appointment, nil
}

func (s *PostgresStore) SaveListing(listing models.Listing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s: %w", listing.ListingID, err)
	}
	_, err = s.db.Exec(`INSERT INTO listings (listing_id, status, payload, expires_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (listing_id) DO UPDATE SET status = EXCLUDED.status, payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`,
		listing.ListingID, string(listing.Status), string(payload), listing.ExpiresAt, listing.CreatedAt, listing.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveListing failed", "error", err, "listingID", listing.ListingID)
		return fmt.Errorf("failed to save listing %s: %w", listing.ListingID, err)
	}
	slog.Debug("PostgresStore SaveListing succeeded", "listingID", listing.ListingID)
	return nil
}

func (s *PostgresStore) GetListing(listingID string) (*models.Listing, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM listings WHERE listing_id = $1`, listingID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetListing query failed", "error", err, "listingID", listingID)
		return nil, fmt.Errorf("failed to query listing %s: %w", listingID, err)
	}
	var listing models.Listing
	if err := json.Unmarshal([]byte(payload), &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing %s: %w", listingID, err)
	}
	return &listing, nil
}

func (s *PostgresStore) ListListings(status models.RecordStatus, limit int) ([]models.Listing, error) {
	query := `SELECT payload FROM listings`
	args := []interface{}{}
	argn := 0
	if status != "" {
		argn++
		query += fmt.Sprintf(` WHERE status = $%d`, argn)
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		argn++
		query += fmt.Sprintf(` LIMIT $%d`, argn)
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("PostgresStore ListListings query failed", "error", err)
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		var listing models.Listing
		if err := json.Unmarshal([]byte(payload), &listing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing row: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listing rows: %w", err)
	}
	return listings, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
