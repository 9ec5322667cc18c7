// Package store provides storage backends for DealFlow.
//
// This file implements an SQLite-backed store for sessions and business
// records.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/RoadAtlas/DealFlow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveSession(session models.SessionState) error {
	if session.SessionID == "" {
		return models.ErrEmptySessionID
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.SessionID, err)
	}
	_, err = s.db.Exec(`INSERT INTO sessions (session_id, state, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		session.SessionID, string(payload), session.CreatedAt, session.LastActiveAt)
	if err != nil {
		slog.Error("SQLiteStore SaveSession failed", "error", err, "sessionID", session.SessionID)
		return fmt.Errorf("failed to save session %s: %w", session.SessionID, err)
	}
	slog.Debug("SQLiteStore SaveSession succeeded", "sessionID", session.SessionID)
	return nil
}

func (s *SQLiteStore) GetSession(sessionID string) (*models.SessionState, error) {
	var payload string
	err := s.db.QueryRow(`SELECT state FROM sessions WHERE session_id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetSession query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}
	var session models.SessionState
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		slog.Error("SQLiteStore GetSession unmarshal failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *SQLiteStore) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		slog.Error("SQLiteStore DeleteSession failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteExpiredSessions(cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		slog.Error("SQLiteStore DeleteExpiredSessions failed", "error", err)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) SaveOrder(order models.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order %s: %w", order.OrderID, err)
	}
	_, err = s.db.Exec(`INSERT INTO orders (order_id, status, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(order_id) DO UPDATE SET status = excluded.status, payload = excluded.payload, updated_at = excluded.updated_at`,
		order.OrderID, string(order.Status), string(payload), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveOrder failed", "error", err, "orderID", order.OrderID)
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
	slog.Debug("SQLiteStore SaveOrder succeeded", "orderID", order.OrderID, "status", order.Status)
	return nil
}

func (s *SQLiteStore) GetOrder(orderID string) (*models.Order, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM orders WHERE order_id = ?`, orderID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetOrder query failed", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("failed to query order %s: %w", orderID, err)
	}
	var order models.Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", orderID, err)
	}
	return &order, nil
}

func (s *SQLiteStore) SaveAppointment(appointment models.Appointment) error {
	payload, err := json.Marshal(appointment)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment %s: %w", appointment.AppointmentID, err)
	}
	_, err = s.db.Exec(`INSERT INTO appointments (appointment_id, status, scheduled_at, payload, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(appointment_id) DO UPDATE SET status = excluded.status, scheduled_at = excluded.scheduled_at, payload = excluded.payload, updated_at = excluded.updated_at`,
		appointment.AppointmentID, string(appointment.Status), appointment.Scheduled, string(payload), appointment.CreatedAt, appointment.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveAppointment failed", "error", err, "appointmentID", appointment.AppointmentID)
		return fmt.Errorf("failed to save appointment %s: %w", appointment.AppointmentID, err)
	}
	slog.Debug("SQLiteStore SaveAppointment succeeded", "appointmentID", appointment.AppointmentID)
	return nil
}

func (s *SQLiteStore) GetAppointment(appointmentID string) (*models.Appointment, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM appointments WHERE appointment_id = ?`, appointmentID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetAppointment query failed", "error", err, "appointmentID", appointmentID)
		return nil, fmt.Errorf("failed to query appointment %s: %w", appointmentID, err)
	}
	var appointment models.Appointment
	if err := json.Unmarshal([]byte(payload), &appointment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal appointment %s: %w", appointmentID, err)
	}
	return &appointment, nil
}

func (s *SQLiteStore) SaveListing(listing models.Listing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s: %w", listing.ListingID, err)
	}
	_, err = s.db.Exec(`INSERT INTO listings (listing_id, status, payload, expires_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(listing_id) DO UPDATE SET status = excluded.status, payload = excluded.payload, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		listing.ListingID, string(listing.Status), string(payload), listing.ExpiresAt, listing.CreatedAt, listing.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveListing failed", "error", err, "listingID", listing.ListingID)
		return fmt.Errorf("failed to save listing %s: %w", listing.ListingID, err)
	}
	slog.Debug("SQLiteStore SaveListing succeeded", "listingID", listing.ListingID)
	return nil
}

func (s *SQLiteStore) GetListing(listingID string) (*models.Listing, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM listings WHERE listing_id = ?`, listingID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetListing query failed", "error", err, "listingID", listingID)
		return nil, fmt.Errorf("failed to query listing %s: %w", listingID, err)
	}
	var listing models.Listing
	if err := json.Unmarshal([]byte(payload), &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing %s: %w", listingID, err)
	}
	return &listing, nil
}

func (s *SQLiteStore) ListListings(status models.RecordStatus, limit int) ([]models.Listing, error) {
	query := `SELECT payload FROM listings`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("SQLiteStore ListListings query failed", "error", err)
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
