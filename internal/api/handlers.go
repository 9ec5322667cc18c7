// Package api provides HTTP handlers for DealFlow endpoints.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/finance"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/google/uuid"
)

// MaxChatMessageLength bounds a single chat message body.
const MaxChatMessageLength = 4096

// chatRequest is the POST /chat body. A missing session ID starts a new
// session under a generated UUID.
type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "ok"}))
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.chatHandler: processing chat request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.chatHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required field: message"))
		return
	}
	if len(req.Message) > MaxChatMessageLength {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Message too long"))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
		slog.Debug("Server.chatHandler: started new session", "sessionID", req.SessionID)
	}

	result, err := s.engine.ProcessTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("Server.chatHandler: turn failed", "error", err, "sessionID", req.SessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		state, err := s.sessions.Get(sessionID)
		if err != nil {
			slog.Error("Server.sessionHandler: lookup failed", "error", err, "sessionID", sessionID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load session"))
			return
		}
		if state == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(state))

	case http.MethodDelete:
		if err := s.sessions.Delete(sessionID); err != nil {
			slog.Error("Server.sessionHandler: delete failed", "error", err, "sessionID", sessionID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete session"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session deleted", nil))

	default:
		w.Header().Set("Allow", "GET, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// statusUpdateRequest is the POST /{records}/{id}/status body. Note, when
// given, is appended to the record's notes alongside the transition.
type statusUpdateRequest struct {
	Status models.RecordStatus `json:"status"`
	Note   string              `json:"note,omitempty"`
}

// decodeStatusUpdate validates the method and body of a status-update
// request. It writes the error response itself and returns ok=false when the
// caller should stop.
func decodeStatusUpdate(w http.ResponseWriter, r *http.Request) (statusUpdateRequest, bool) {
	var req statusUpdateRequest
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.decodeStatusUpdate: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return req, false
	}
	if !models.IsValidRecordStatus(req.Status) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid status"))
		return req, false
	}
	return req, true
}

func transitionError(kind string, from, to models.RecordStatus) string {
	return fmt.Sprintf("Cannot transition %s from %s to %s", kind, from, to)
}

func (s *Server) orderHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	if orderID, found := strings.CutSuffix(rest, "/status"); found {
		s.orderStatusHandler(w, r, orderID)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	orderID := rest
	order, err := s.st.GetOrder(orderID)
	if err != nil {
		slog.Error("Server.orderHandler: lookup failed", "error", err, "orderID", orderID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load order"))
		return
	}
	if order == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Order not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(order))
}

func (s *Server) orderStatusHandler(w http.ResponseWriter, r *http.Request, orderID string) {
	req, ok := decodeStatusUpdate(w, r)
	if !ok {
		return
	}
	order, err := s.st.GetOrder(orderID)
	if err != nil {
		slog.Error("Server.orderStatusHandler: lookup failed", "error", err, "orderID", orderID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load order"))
		return
	}
	if order == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Order not found"))
		return
	}
	if !models.CanTransition(order.Status, req.Status) {
		writeJSONResponse(w, http.StatusConflict, models.Error(transitionError("order", order.Status, req.Status)))
		return
	}
	now := time.Now()
	order.Status = req.Status
	order.UpdatedAt = now
	if req.Note != "" {
		order.Notes = append(order.Notes, models.RecordNote{At: now, Text: req.Note})
	}
	if err := s.st.SaveOrder(*order); err != nil {
		slog.Error("Server.orderStatusHandler: save failed", "error", err, "orderID", orderID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update order"))
		return
	}
	slog.Info("Server.orderStatusHandler: status updated", "orderID", orderID, "status", req.Status)
	writeJSONResponse(w, http.StatusOK, models.Success(order))
}

func (s *Server) appointmentHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/appointments/")
	if appointmentID, found := strings.CutSuffix(rest, "/status"); found {
		s.appointmentStatusHandler(w, r, appointmentID)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	appointmentID := rest
	appt, err := s.st.GetAppointment(appointmentID)
	if err != nil {
		slog.Error("Server.appointmentHandler: lookup failed", "error", err, "appointmentID", appointmentID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load appointment"))
		return
	}
	if appt == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Appointment not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(appt))
}

func (s *Server) appointmentStatusHandler(w http.ResponseWriter, r *http.Request, appointmentID string) {
	req, ok := decodeStatusUpdate(w, r)
	if !ok {
		return
	}
	appt, err := s.st.GetAppointment(appointmentID)
	if err != nil {
		slog.Error("Server.appointmentStatusHandler: lookup failed", "error", err, "appointmentID", appointmentID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load appointment"))
		return
	}
	if appt == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Appointment not found"))
		return
	}
	if !models.CanTransition(appt.Status, req.Status) {
		writeJSONResponse(w, http.StatusConflict, models.Error(transitionError("appointment", appt.Status, req.Status)))
		return
	}
	now := time.Now()
	appt.Status = req.Status
	appt.UpdatedAt = now
	if req.Note != "" {
		appt.Notes = append(appt.Notes, models.RecordNote{At: now, Text: req.Note})
	}
	if err := s.st.SaveAppointment(*appt); err != nil {
		slog.Error("Server.appointmentStatusHandler: save failed", "error", err, "appointmentID", appointmentID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update appointment"))
		return
	}
	slog.Info("Server.appointmentStatusHandler: status updated", "appointmentID", appointmentID, "status", req.Status)
	writeJSONResponse(w, http.StatusOK, models.Success(appt))
}

// DefaultListingsLimit caps GET /listings when no limit is given.
const DefaultListingsLimit = 50

func (s *Server) listingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidRecordStatus(models.RecordStatus(status)) {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid status filter"))
		return
	}
	limit := DefaultListingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid limit"))
			return
		}
		limit = n
	}
	listings, err := s.st.ListListings(models.RecordStatus(status), limit)
	if err != nil {
		slog.Error("Server.listingsHandler: lookup failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load listings"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(listings))
}

func (s *Server) listingHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/listings/")
	if listingID, found := strings.CutSuffix(rest, "/status"); found {
		s.listingStatusHandler(w, r, listingID)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	listingID := rest
	listing, err := s.st.GetListing(listingID)
	if err != nil {
		slog.Error("Server.listingHandler: lookup failed", "error", err, "listingID", listingID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load listing"))
		return
	}
	if listing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Listing not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(listing))
}

func (s *Server) listingStatusHandler(w http.ResponseWriter, r *http.Request, listingID string) {
	req, ok := decodeStatusUpdate(w, r)
	if !ok {
		return
	}
	listing, err := s.st.GetListing(listingID)
	if err != nil {
		slog.Error("Server.listingStatusHandler: lookup failed", "error", err, "listingID", listingID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load listing"))
		return
	}
	if listing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Listing not found"))
		return
	}
	if !models.CanTransition(listing.Status, req.Status) {
		writeJSONResponse(w, http.StatusConflict, models.Error(transitionError("listing", listing.Status, req.Status)))
		return
	}
	now := time.Now()
	listing.Status = req.Status
	listing.UpdatedAt = now
	if req.Note != "" {
		listing.Notes = append(listing.Notes, models.RecordNote{At: now, Text: req.Note})
	}
	if err := s.st.SaveListing(*listing); err != nil {
		slog.Error("Server.listingStatusHandler: save failed", "error", err, "listingID", listingID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to update listing"))
		return
	}
	slog.Info("Server.listingStatusHandler: status updated", "listingID", listingID, "status", req.Status)
	writeJSONResponse(w, http.StatusOK, models.Success(listing))
}

// financeCompareRequest is the POST /finance/compare body.
type financeCompareRequest struct {
	Price             float64 `json:"price"`
	Deposit           float64 `json:"deposit"`
	Residual          float64 `json:"residual"`
	Balloon           float64 `json:"balloon"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
}

func (s *Server) financeCompareHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req financeCompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.financeCompareHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	quotes, err := finance.Compare(finance.CompareInputs{
		Price:             req.Price,
		Deposit:           req.Deposit,
		Residual:          req.Residual,
		Balloon:           req.Balloon,
		AnnualRatePercent: req.AnnualRatePercent,
		TermMonths:        req.TermMonths,
	})
	if err != nil {
		// Calculator validation errors are the caller's problem.
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(quotes))
}
