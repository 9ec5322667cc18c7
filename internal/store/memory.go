// Package store provides storage backends for DealFlow.
//
// This file implements an in-memory store used by tests and by deployments
// that run without a database.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// InMemoryStore keeps all state in process memory. Safe for concurrent use.
type InMemoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]models.SessionState
	orders       map[string]models.Order
	appointments map[string]models.Appointment
	listings     map[string]models.Listing
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions:     make(map[string]models.SessionState),
		orders:       make(map[string]models.Order),
		appointments: make(map[string]models.Appointment),
		listings:     make(map[string]models.Listing),
	}
}

func (s *InMemoryStore) SaveSession(session models.SessionState) error {
	if session.SessionID == "" {
		return models.ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
	return nil
}

func (s *InMemoryStore) GetSession(sessionID string) (*models.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *InMemoryStore) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) DeleteExpiredSessions(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.LastActiveAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *InMemoryStore) SaveOrder(order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.OrderID] = order
	return nil
}

func (s *InMemoryStore) GetOrder(orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (s *InMemoryStore) SaveAppointment(appointment models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[appointment.AppointmentID] = appointment
	return nil
}

func (s *InMemoryStore) GetAppointment(appointmentID string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &appointment, nil
}

func (s *InMemoryStore) SaveListing(listing models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[listing.ListingID] = listing
	return nil
}

func (s *InMemoryStore) GetListing(listingID string) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	listing, ok := s.listings[listingID]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

func (s *InMemoryStore) ListListings(status models.RecordStatus, limit int) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var listings []models.Listing
	for _, l := range s.listings {
		if status != "" && l.Status != status {
			continue
		}
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

// OrderCount reports the number of stored orders. Test helper.
func (s *InMemoryStore) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// AppointmentCount reports the number of stored appointments. Test helper.
func (s *InMemoryStore) AppointmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments)
}

// ListingCount reports the number of stored listings. Test helper.
func (s *InMemoryStore) ListingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

func (s *InMemoryStore) Close() error { return nil }
