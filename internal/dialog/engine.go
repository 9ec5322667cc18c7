package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/extract"
	"github.com/RoadAtlas/DealFlow/internal/genai"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/RoadAtlas/DealFlow/internal/search"
	"github.com/RoadAtlas/DealFlow/internal/session"
	"github.com/RoadAtlas/DealFlow/internal/transact"
)

// Canonical replies for turns that belong to no funnel.
const (
	GreetingReply = "Welcome to RoadAtlas! Are you looking to buy a vehicle, book a service, or sell your car?"
	ClarifyReply  = "I can help you buy a vehicle, book a service, or sell your car. Which would you like?"
	CancelReply   = "No problem, I've set that aside. Let me know whenever you'd like to pick it back up."
	RetryReply    = "Sorry, something went wrong on our side saving that. Nothing was lost — please try again in a moment."
)

// TurnResult describes one processed turn.
type TurnResult struct {
	SessionID string        `json:"session_id"`
	Reply     string        `json:"reply"`
	Domain    models.Domain `json:"domain,omitempty"`
	Stage     models.Stage  `json:"stage,omitempty"`
	RecordID  string        `json:"record_id,omitempty"`
	Completed bool          `json:"completed"`
}

// Opts holds configuration options for the engine.
type Opts struct {
	LLM    genai.ClientInterface
	Reword bool
	Now    func() time.Time
}

// Option defines a configuration option for the engine.
type Option func(*Opts)

// WithLLM enables the language model for routing fallback and rewording.
func WithLLM(llm genai.ClientInterface) Option {
	return func(o *Opts) { o.LLM = llm }
}

// WithRewording lets the language model reword canonical prompts. Record
// confirmations are never reworded.
func WithRewording() Option {
	return func(o *Opts) { o.Reword = true }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *Opts) { o.Now = now }
}

// Engine processes conversation turns: extract, route, advance the funnel,
// create records at the readiness gate, persist.
type Engine struct {
	sessions    *session.Manager
	transactor  *transact.Manager
	router      *Router
	acquisition acquisitionMachine
	service     serviceMachine
	consignment consignmentMachine
	llm         genai.ClientInterface
	reword      bool
	now         func() time.Time
}

// NewEngine creates a conversation engine.
func NewEngine(sessions *session.Manager, transactor *transact.Manager, marketplace *search.Aggregator, directory search.Directory, opts ...Option) *Engine {
	cfg := Opts{Now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		sessions:    sessions,
		transactor:  transactor,
		router:      NewRouter(cfg.LLM),
		acquisition: acquisitionMachine{marketplace: marketplace},
		service:     serviceMachine{directory: directory},
		llm:         cfg.LLM,
		reword:      cfg.Reword,
		now:         cfg.Now,
	}
}

// HandleMessage adapts the engine to the messaging relay: the canonical
// sender is the session ID.
func (e *Engine) HandleMessage(ctx context.Context, from, body string) (string, error) {
	result, err := e.ProcessTurn(ctx, from, body)
	if err != nil {
		return "", err
	}
	return result.Reply, nil
}

// ProcessTurn runs one user message through the pipeline and returns the
// reply along with the resulting funnel position.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	state, release, err := e.sessions.Acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := e.now()
	signals := extract.Extract(message, e.extractContext(state, now))

	// A standalone "no"/"cancel" mid-funnel shelves the funnel.
	if state.ActiveDomain != models.DomainNone && isLoneDecline(signals) {
		state.ResetFunnel()
		return e.finishTurn(state, message, CancelReply, now, "", false)
	}

	domain, routed := e.router.Route(ctx, state, message, signals)
	if !routed {
		reply := ClarifyReply
		if extract.IsBareGreeting(message) {
			reply = GreetingReply
		}
		return e.finishTurn(state, message, e.maybeReword(ctx, reply), now, "", false)
	}

	if state.ActiveDomain == models.DomainNone {
		switch domain {
		case models.DomainAcquisition:
			e.acquisition.start(state)
		case models.DomainService:
			e.service.start(state)
		case models.DomainConsignment:
			e.consignment.start(state)
		}
		slog.Info("Engine started funnel", "sessionID", sessionID, "domain", domain)
	}

	var prompt string
	switch state.ActiveDomain {
	case models.DomainAcquisition:
		e.acquisition.apply(state, signals)
		prompt, err = e.acquisition.advance(ctx, state)
	case models.DomainService:
		e.service.apply(state, signals)
		prompt, err = e.service.advance(ctx, state)
	case models.DomainConsignment:
		e.consignment.apply(state, signals, message)
		prompt, err = e.consignment.advance(ctx, state)
	}
	if err != nil {
		return nil, fmt.Errorf("funnel advance failed for session %s: %w", sessionID, err)
	}

	if state.Stage != models.StageReady {
		return e.finishTurn(state, message, e.maybeReword(ctx, prompt), now, "", false)
	}

	// Readiness gate: exactly one record per funnel.
	result, err := e.transactor.Create(ctx, state)
	if err != nil {
		var incomplete *transact.IncompleteError
		if errors.As(err, &incomplete) {
			// Ready stage with missing slots should not happen; recover by
			// asking for them rather than failing the turn.
			reply := "I still need a couple of details: " + strings.Join(incomplete.Missing, ", ") + "."
			return e.finishTurn(state, message, reply, now, "", false)
		}
		slog.Error("Engine record creation failed", "sessionID", sessionID, "error", err)
		return e.finishTurn(state, message, RetryReply, now, "", false)
	}

	state.ResetFunnel()
	return e.finishTurn(state, message, result.Confirmation, now, result.RecordID, true)
}

// finishTurn appends the turn to history, persists the session and shapes
// the result. A completed turn reports the completed pseudo-stage.
func (e *Engine) finishTurn(state *models.SessionState, message, reply string, now time.Time, recordID string, completed bool) (*TurnResult, error) {
	state.AppendTurn("user", message, now)
	state.AppendTurn("assistant", reply, now)
	if err := e.sessions.Persist(state); err != nil {
		return nil, err
	}
	result := &TurnResult{
		SessionID: state.SessionID,
		Reply:     reply,
		Domain:    state.ActiveDomain,
		Stage:     state.Stage,
		RecordID:  recordID,
		Completed: completed,
	}
	if completed {
		result.Stage = models.StageCompleted
	}
	return result, nil
}

// extractContext derives the stage-bound extraction hints.
func (e *Engine) extractContext(state *models.SessionState, now time.Time) extract.Context {
	ectx := extract.Context{Now: now}
	switch state.Stage {
	case models.StageVehicleSelection:
		if state.Acquisition != nil {
			ectx.AwaitingChoice = true
			ectx.ChoiceMax = len(state.Acquisition.SearchResults)
		}
	case models.StageProviderSelection:
		if state.Service != nil {
			ectx.AwaitingChoice = true
			ectx.ChoiceMax = len(state.Service.Providers)
		}
	case models.StageCustomerInfo, models.StageSvcCustomerInfo, models.StageContactInfo:
		ectx.AwaitingContact = true
	case models.StageAppointmentTime:
		ectx.AwaitingDate = true
	}
	return ectx
}

// maybeReword asks the language model to rephrase a canonical prompt. Any
// failure falls back to the canonical text.
func (e *Engine) maybeReword(ctx context.Context, reply string) string {
	if !e.reword || e.llm == nil {
		return reply
	}
	reworded, err := e.llm.GeneratePrompt(ctx,
		"Reword the following dealership assistant reply in a warm, concise tone. Keep every fact, number and list position exactly as given.",
		reply)
	if err != nil || strings.TrimSpace(reworded) == "" {
		slog.Debug("Engine rewording unavailable, using canonical reply", "error", err)
		return reply
	}
	return reworded
}

func isLoneDecline(signals []extract.Signal) bool {
	if len(signals) != 1 {
		return false
	}
	c, ok := signals[0].(extract.ConfirmationFact)
	return ok && !c.Accepted
}
