// Package dialog contains the conversation engine: intent routing, the three
// funnel state machines and reply composition.
package dialog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/extract"
	"github.com/RoadAtlas/DealFlow/internal/genai"
	"github.com/RoadAtlas/DealFlow/internal/models"
)

// Router decides which funnel a turn belongs to. An active funnel is sticky:
// mid-funnel turns never re-route. For a fresh session the keyword lexicons
// decide first and the language model is only a fallback, so routing stays
// deterministic whenever a keyword matches.
type Router struct {
	llm genai.ClientInterface // nil disables the LLM fallback
}

// NewRouter creates a router. Pass nil to run lexicon-only.
func NewRouter(llm genai.ClientInterface) *Router {
	return &Router{llm: llm}
}

const classifySystemPrompt = `You route customer messages for a vehicle dealership.
Classify the message into exactly one word:
"acquisition" (buying a vehicle), "service" (booking maintenance or repair),
"consignment" (selling their vehicle), or "unknown".`

// Route returns the funnel for this turn and whether one was determined.
func (r *Router) Route(ctx context.Context, state *models.SessionState, utterance string, signals []extract.Signal) (models.Domain, bool) {
	if state.ActiveDomain != models.DomainNone {
		return state.ActiveDomain, true
	}

	for _, s := range signals {
		if hint, ok := s.(extract.DomainHintFact); ok {
			return hint.Domain, true
		}
	}

	// A vehicle make with no other intent reads as purchase interest.
	for _, s := range signals {
		if v, ok := s.(extract.VehicleFact); ok && v.Make != "" {
			return models.DomainAcquisition, true
		}
	}

	if extract.IsBareGreeting(utterance) {
		return models.DomainNone, false
	}

	if r.llm != nil {
		answer, err := r.llm.GeneratePrompt(ctx, classifySystemPrompt, utterance)
		if err != nil {
			slog.Warn("Router LLM classification failed", "error", err)
			return models.DomainNone, false
		}
		switch domain := models.Domain(strings.ToLower(strings.TrimSpace(answer))); domain {
		case models.DomainAcquisition, models.DomainService, models.DomainConsignment:
			slog.Debug("Router LLM classified turn", "domain", domain)
			return domain, true
		}
	}
	return models.DomainNone, false
}
