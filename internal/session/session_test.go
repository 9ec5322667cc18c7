package session

import (
	"sync"
	"testing"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/store"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *store.InMemoryStore, *fakeClock) {
	t.Helper()
	st := store.NewInMemoryStore()
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	return NewManager(st, WithTTL(ttl), WithClock(clock.Now)), st, clock
}

func TestAcquireCreatesAndPersists(t *testing.T) {
	m, _, _ := newTestManager(t, DefaultTTL)

	state, release, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if state.SessionID != "cust-1" || state.ActiveDomain != models.DomainNone {
		t.Errorf("fresh session wrong: %+v", state)
	}
	state.ActiveDomain = models.DomainService
	state.Stage = models.StageVehicleInfo
	state.Service = &models.ServiceSlots{ServiceType: "MOT"}
	if err := m.Persist(state); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	release()

	again, release2, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire again: %v", err)
	}
	defer release2()
	if again.Stage != models.StageVehicleInfo || again.Service == nil || again.Service.ServiceType != "MOT" {
		t.Errorf("session did not survive release/acquire: %+v", again)
	}
}

func TestAcquireEmptyID(t *testing.T) {
	m, _, _ := newTestManager(t, DefaultTTL)
	if _, _, err := m.Acquire(""); err != models.ErrEmptySessionID {
		t.Errorf("expected ErrEmptySessionID, got %v", err)
	}
}

func TestExpiredSessionIsRecreated(t *testing.T) {
	ttl := 30 * time.Minute
	m, _, clock := newTestManager(t, ttl)

	state, release, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	state.ActiveDomain = models.DomainAcquisition
	state.Stage = models.StageCustomerInfo
	state.Acquisition = &models.AcquisitionSlots{Contact: models.ContactInfo{Name: "Siya"}}
	state.AppendTurn("user", "hello", clock.Now())
	if err := m.Persist(state); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	release()

	clock.Advance(ttl + time.Minute)

	recreated, release2, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}
	defer release2()
	if recreated.ActiveDomain != models.DomainNone || recreated.Acquisition != nil {
		t.Errorf("expired session leaked state: %+v", recreated)
	}
	if len(recreated.History) != 0 {
		t.Errorf("expired session leaked history: %d turns", len(recreated.History))
	}
	if recreated.SessionID != "cust-1" {
		t.Errorf("recreated session changed ID: %q", recreated.SessionID)
	}
}

func TestActivityExtendsLifetime(t *testing.T) {
	ttl := 30 * time.Minute
	m, _, clock := newTestManager(t, ttl)

	state, release, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	state.ActiveDomain = models.DomainConsignment
	state.Consignment = &models.ConsignmentSlots{Make: "Audi"}
	m.Persist(state)
	release()

	// Touch the session every 20 minutes; it must never expire.
	for i := 0; i < 3; i++ {
		clock.Advance(20 * time.Minute)
		state, release, err = m.Acquire("cust-1")
		if err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if state.Consignment == nil || state.Consignment.Make != "Audi" {
			t.Fatalf("session expired despite activity on touch %d: %+v", i, state)
		}
		m.Persist(state)
		release()
	}
}

func TestClearFunnelKeepsHistory(t *testing.T) {
	m, _, clock := newTestManager(t, DefaultTTL)

	state, release, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	state.ActiveDomain = models.DomainService
	state.Service = &models.ServiceSlots{RecordCreated: true, RecordID: "SVC-RA-2026-AB12C"}
	state.AppendTurn("user", "book an mot", clock.Now())
	state.AppendTurn("assistant", "done", clock.Now())
	if err := m.ClearFunnel(state); err != nil {
		t.Fatalf("ClearFunnel: %v", err)
	}
	release()

	again, release2, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release2()
	if again.ActiveDomain != models.DomainNone || again.Service != nil {
		t.Errorf("funnel not cleared: %+v", again)
	}
	if len(again.History) != 2 {
		t.Errorf("history lost on funnel clear: %d turns", len(again.History))
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	ttl := 30 * time.Minute
	m, st, clock := newTestManager(t, ttl)

	old, release, _ := m.Acquire("old")
	m.Persist(old)
	release()

	clock.Advance(ttl + time.Minute)

	fresh, release2, _ := m.Acquire("fresh")
	m.Persist(fresh)
	release2()

	removed, err := m.Sweep()
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if gone, _ := st.GetSession("old"); gone != nil {
		t.Error("expired session survived the sweep")
	}
	if kept, _ := st.GetSession("fresh"); kept == nil {
		t.Error("active session was swept")
	}
}

// Concurrent turns on the same session must serialize; the final state must
// reflect every turn.
func TestConcurrentTurnsSerialize(t *testing.T) {
	m, _, clock := newTestManager(t, DefaultTTL)

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, release, err := m.Acquire("cust-1")
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer release()
			state.AppendTurn("user", "msg", clock.Now())
			if err := m.Persist(state); err != nil {
				t.Errorf("Persist: %v", err)
			}
		}()
	}
	wg.Wait()

	state, release, err := m.Acquire("cust-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()
	want := turns
	if want > models.MaxHistoryTurns {
		want = models.MaxHistoryTurns
	}
	if len(state.History) != want {
		t.Errorf("history = %d turns, want %d", len(state.History), want)
	}
}
