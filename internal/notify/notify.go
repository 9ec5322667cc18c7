// Package notify sends best-effort notifications to dealership staff when a
// business record is created.
//
// Notification delivery never blocks a transaction: Notify reports whether
// the message went out and the caller carries on either way.
package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/RoadAtlas/DealFlow/internal/messaging"
)

// Notifier delivers one notification. It reports delivery success instead of
// returning an error because a failed notification must never fail the
// operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, recipient, template string, data map[string]string) bool
}

// RenderTemplate substitutes {{key}} placeholders with values from data.
// Unknown placeholders are left in place.
func RenderTemplate(template string, data map[string]string) string {
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// MessagingNotifier sends notifications over a messaging channel.
type MessagingNotifier struct {
	service messaging.Service
}

// NewMessagingNotifier creates a notifier backed by the given channel.
func NewMessagingNotifier(service messaging.Service) *MessagingNotifier {
	return &MessagingNotifier{service: service}
}

func (n *MessagingNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) bool {
	body := RenderTemplate(template, data)
	recipient, err := n.service.ValidateAndCanonicalizeRecipient(recipient)
	if err != nil {
		slog.Warn("Notifier invalid recipient", "error", err)
		return false
	}
	if err := n.service.SendMessage(ctx, recipient, body); err != nil {
		slog.Warn("Notifier delivery failed", "recipient", recipient, "error", err)
		return false
	}
	slog.Debug("Notifier delivered", "recipient", recipient)
	return true
}

// MockNotifier records notifications for tests.
type MockNotifier struct {
	Delivered bool
	Calls     []Notification
}

// Notification is one captured notification.
type Notification struct {
	Recipient string
	Body      string
}

// NewMockNotifier creates a mock that reports delivery success.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Delivered: true}
}

func (m *MockNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) bool {
	m.Calls = append(m.Calls, Notification{Recipient: recipient, Body: RenderTemplate(template, data)})
	return m.Delivered
}
