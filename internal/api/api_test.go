package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/dialog"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/notify"
	"github.com/RoadAtlas/DealFlow/internal/search"
	"github.com/RoadAtlas/DealFlow/internal/session"
	"github.com/RoadAtlas/DealFlow/internal/store"
	"github.com/RoadAtlas/DealFlow/internal/transact"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func newTestServer(t *testing.T) (*httptest.Server, *store.InMemoryStore) {
	t.Helper()
	st := store.NewInMemoryStore()
	clock := func() time.Time { return time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC) }
	sessions := session.NewManager(st, session.WithClock(clock))
	transactor := transact.NewManager(st, notify.NewMockNotifier(), transact.WithClock(clock))
	engine := dialog.NewEngine(sessions, transactor,
		search.NewAggregator(search.NewShowroomProvider()),
		search.NewStaticDirectory(),
		dialog.WithClock(clock))

	srv := NewServer(engine, sessions, st)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

func getJSON(t *testing.T, url string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, env := getJSON(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || env.Status != "ok" {
		t.Errorf("healthz: status=%d env=%+v", resp.StatusCode, env)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, env := postJSON(t, ts.URL+"/chat", map[string]string{"message": "Hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result dialog.TurnResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.SessionID == "" {
		t.Error("no session ID generated")
	}
	if result.Reply != dialog.GreetingReply {
		t.Errorf("reply = %q", result.Reply)
	}
}

func TestChatValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/chat", map[string]string{"session_id": "s1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty message: status = %d", resp.StatusCode)
	}

	getResp, err := http.Get(ts.URL + "/chat")
	if err != nil {
		t.Fatalf("GET /chat: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /chat: status = %d", getResp.StatusCode)
	}
}

// A full funnel over HTTP, then the created order is retrievable.
func TestChatFunnelAndOrderLookup(t *testing.T) {
	ts, _ := newTestServer(t)
	const sid = "api-cust-1"

	for _, msg := range []string{"I'm looking to buy a Ferrari from 2019", "1"} {
		resp, _ := postJSON(t, ts.URL+"/chat", map[string]string{"session_id": sid, "message": msg})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("turn %q: status = %d", msg, resp.StatusCode)
		}
	}
	_, env := postJSON(t, ts.URL+"/chat", map[string]string{"session_id": sid, "message": "John Smith, john@example.com"})
	var result dialog.TurnResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Completed || !strings.HasPrefix(result.RecordID, "ORD-RA-") {
		t.Fatalf("funnel did not complete: %+v", result)
	}

	resp, env := getJSON(t, ts.URL+"/orders/"+result.RecordID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("order lookup: status = %d", resp.StatusCode)
	}
	var order models.Order
	if err := json.Unmarshal(env.Result, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.OrderID != result.RecordID || order.Customer.Name != "John Smith" {
		t.Errorf("order = %+v", order)
	}
}

func TestSessionLookupAndDelete(t *testing.T) {
	ts, _ := newTestServer(t)
	const sid = "api-cust-2"

	postJSON(t, ts.URL+"/chat", map[string]string{"session_id": sid, "message": "Hello"})

	resp, env := getJSON(t, ts.URL+"/sessions/"+sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session lookup: status = %d", resp.StatusCode)
	}
	var state models.SessionState
	if err := json.Unmarshal(env.Result, &state); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if state.SessionID != sid || len(state.History) == 0 {
		t.Errorf("session = %+v", state)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/sessions/"+sid, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE session: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete: status = %d", delResp.StatusCode)
	}

	resp, _ = getJSON(t, ts.URL+"/sessions/"+sid)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("after delete: status = %d", resp.StatusCode)
	}
}

func TestRecordLookupNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := getJSON(t, ts.URL+"/orders/ORD-RA-2026-XXXXX")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
	resp, _ = getJSON(t, ts.URL+"/appointments/SVC-RA-2026-XXXXX")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestListingsEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	now := time.Now()
	if err := st.SaveListing(models.Listing{
		ListingID: "LST-RA-2026-AAAAA",
		Status:    models.RecordStatusPending,
		Make:      "Porsche", Model: "911", Year: 2018, Mileage: 24000,
		CreatedAt: now, UpdatedAt: now, ExpiresAt: now.Add(models.ListingDuration),
	}); err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	resp, env := getJSON(t, ts.URL+"/listings?status=pending")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var listings []models.Listing
	if err := json.Unmarshal(env.Result, &listings); err != nil {
		t.Fatalf("decode listings: %v", err)
	}
	if len(listings) != 1 || listings[0].ListingID != "LST-RA-2026-AAAAA" {
		t.Errorf("listings = %+v", listings)
	}

	resp, _ = getJSON(t, ts.URL+"/listings?status=bogus")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus status filter: status = %d", resp.StatusCode)
	}
}

func TestOrderStatusUpdate(t *testing.T) {
	ts, st := newTestServer(t)
	now := time.Now()
	if err := st.SaveOrder(models.Order{
		OrderID: "ORD-RA-2026-BBBBB",
		Status:  models.RecordStatusPending,
		Vehicle: models.VehicleListing{ID: "ra-101", Make: "Ferrari", Model: "488 GTB", Year: 2019, Price: 189950},
		Customer: models.ContactInfo{Name: "John Smith", Email: "john@example.com"},
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	resp, env := postJSON(t, ts.URL+"/orders/ORD-RA-2026-BBBBB/status",
		statusUpdateRequest{Status: models.RecordStatusConfirmed, Note: "Deposit received"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm: status = %d, message %q", resp.StatusCode, env.Message)
	}
	var order models.Order
	if err := json.Unmarshal(env.Result, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != models.RecordStatusConfirmed {
		t.Errorf("status = %q", order.Status)
	}
	if len(order.Notes) != 1 || order.Notes[0].Text != "Deposit received" {
		t.Errorf("notes = %+v", order.Notes)
	}

	// The transition persists.
	_, env = getJSON(t, ts.URL+"/orders/ORD-RA-2026-BBBBB")
	if err := json.Unmarshal(env.Result, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != models.RecordStatusConfirmed || len(order.Notes) != 1 {
		t.Errorf("persisted order = %+v", order)
	}

	// Confirmed cannot go back to pending.
	resp, _ = postJSON(t, ts.URL+"/orders/ORD-RA-2026-BBBBB/status",
		statusUpdateRequest{Status: models.RecordStatusPending})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("invalid transition: status = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/orders/ORD-RA-2026-BBBBB/status",
		map[string]string{"status": "bogus"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus status: status = %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/orders/ORD-RA-2026-XXXXX/status",
		statusUpdateRequest{Status: models.RecordStatusConfirmed})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown order: status = %d", resp.StatusCode)
	}
}

func TestListingStatusUpdateAndLookup(t *testing.T) {
	ts, st := newTestServer(t)
	now := time.Now()
	if err := st.SaveListing(models.Listing{
		ListingID: "LST-RA-2026-CCCCC",
		Status:    models.RecordStatusPending,
		Make:      "Bentley", Model: "Continental", Year: 2020, Mileage: 18500,
		CreatedAt: now, UpdatedAt: now, ExpiresAt: now.Add(models.ListingDuration),
	}); err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	resp, env := postJSON(t, ts.URL+"/listings/LST-RA-2026-CCCCC/status",
		statusUpdateRequest{Status: models.RecordStatusCancelled, Note: "Owner withdrew the vehicle"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status = %d, message %q", resp.StatusCode, env.Message)
	}

	resp, env = getJSON(t, ts.URL+"/listings/LST-RA-2026-CCCCC")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup: status = %d", resp.StatusCode)
	}
	var listing models.Listing
	if err := json.Unmarshal(env.Result, &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Status != models.RecordStatusCancelled || len(listing.Notes) != 1 {
		t.Errorf("listing = %+v", listing)
	}

	// Cancelled is terminal.
	resp, _ = postJSON(t, ts.URL+"/listings/LST-RA-2026-CCCCC/status",
		statusUpdateRequest{Status: models.RecordStatusConfirmed})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("transition out of cancelled: status = %d", resp.StatusCode)
	}
}

func TestAppointmentStatusUpdate(t *testing.T) {
	ts, st := newTestServer(t)
	now := time.Now()
	if err := st.SaveAppointment(models.Appointment{
		AppointmentID: "SVC-RA-2026-DDDDD",
		Status:        models.RecordStatusPending,
		Vehicle:       models.VehicleQuery{Make: "Audi", Model: "R8"},
		ServiceType:   "MOT",
		Provider:      models.ServiceProvider{ID: "ws-001", Name: "RoadAtlas Service Centre Mayfair", Location: "London"},
		Scheduled:     now.Add(24 * time.Hour),
		Customer:      models.ContactInfo{Name: "Jane Doe", Phone: "+447911123456"},
		CreatedAt:     now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	resp, env := postJSON(t, ts.URL+"/appointments/SVC-RA-2026-DDDDD/status",
		statusUpdateRequest{Status: models.RecordStatusConfirmed})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm: status = %d, message %q", resp.StatusCode, env.Message)
	}
	var appt models.Appointment
	if err := json.Unmarshal(env.Result, &appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	if appt.Status != models.RecordStatusConfirmed {
		t.Errorf("status = %q", appt.Status)
	}

	resp, env = postJSON(t, ts.URL+"/appointments/SVC-RA-2026-DDDDD/status",
		statusUpdateRequest{Status: models.RecordStatusCompleted, Note: "Work done, invoice sent"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(env.Result, &appt); err != nil {
		t.Fatalf("decode appointment: %v", err)
	}
	if appt.Status != models.RecordStatusCompleted || len(appt.Notes) != 1 {
		t.Errorf("appointment = %+v", appt)
	}
}

func TestFinanceCompareEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, env := postJSON(t, ts.URL+"/finance/compare", financeCompareRequest{
		Price: 250000, Deposit: 25000, Residual: 100000, Balloon: 50000,
		AnnualRatePercent: 7.0, TermMonths: 60,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, message %q", resp.StatusCode, env.Message)
	}
	var quotes []models.FinanceQuote
	if err := json.Unmarshal(env.Result, &quotes); err != nil {
		t.Fatalf("decode quotes: %v", err)
	}
	if len(quotes) != 4 {
		t.Fatalf("quotes = %d, want 4", len(quotes))
	}
	for _, q := range quotes {
		if q.MonthlyPayment <= 0 {
			t.Errorf("%s: monthly = %f", q.ProductName, q.MonthlyPayment)
		}
	}

	resp, _ = postJSON(t, ts.URL+"/finance/compare", financeCompareRequest{Price: 0, TermMonths: 48})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid inputs: status = %d", resp.StatusCode)
	}
}

func TestTwilioWebhookMount(t *testing.T) {
	st := store.NewInMemoryStore()
	sessions := session.NewManager(st)
	transactor := transact.NewManager(st, notify.NewMockNotifier())
	engine := dialog.NewEngine(sessions, transactor,
		search.NewAggregator(search.NewShowroomProvider()), search.NewStaticDirectory())

	hit := false
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	})
	srv := NewServer(engine, sessions, st, WithTwilioWebhook(webhook))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/webhooks/twilio", "application/x-www-form-urlencoded", strings.NewReader("From=%2B447911123456&Body=hi"))
	if err != nil {
		t.Fatalf("POST webhook: %v", err)
	}
	resp.Body.Close()
	if !hit {
		t.Error("webhook handler not mounted")
	}
}
