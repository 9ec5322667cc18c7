package messaging

import (
	"context"
	"log/slog"
)

// Responder turns one inbound message into one reply. The dialog engine
// implements it; the session ID is the canonical sender number.
type Responder interface {
	HandleMessage(ctx context.Context, from, body string) (string, error)
}

// Relay pumps inbound messages from a channel into the responder and sends
// the replies back out on the same channel.
type Relay struct {
	service   Service
	responder Responder
}

// NewRelay creates a relay between a messaging channel and a responder.
func NewRelay(service Service, responder Responder) *Relay {
	return &Relay{service: service, responder: responder}
}

// Start begins consuming inbound messages until ctx is cancelled or the
// channel's response stream closes.
func (r *Relay) Start(ctx context.Context) error {
	if err := r.service.Start(ctx); err != nil {
		return err
	}
	go r.pump(ctx)
	slog.Info("Relay started")
	return nil
}

// Stop shuts down the underlying channel.
func (r *Relay) Stop() error {
	return r.service.Stop()
}

func (r *Relay) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Relay pump stopping due to context cancellation")
			return
		case response, ok := <-r.service.Responses():
			if !ok {
				slog.Debug("Relay pump stopping; responses channel closed")
				return
			}
			from, err := r.service.ValidateAndCanonicalizeRecipient(response.From)
			if err != nil {
				slog.Warn("Relay dropping message from invalid sender", "from", response.From, "error", err)
				continue
			}
			reply, err := r.responder.HandleMessage(ctx, from, response.Body)
			if err != nil {
				slog.Error("Relay responder failed", "from", from, "error", err)
				continue
			}
			if reply == "" {
				continue
			}
			if err := r.service.SendMessage(ctx, from, reply); err != nil {
				slog.Error("Relay failed to send reply", "to", from, "error", err)
			}
		}
	}
}
