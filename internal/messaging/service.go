// Package messaging provides the pluggable message channels that carry
// DealFlow conversations: WhatsApp via whatsmeow and SMS via Twilio.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/nyaruka/phonenumbers"
)

// Constants for channel configuration
const (
	// DefaultChannelBufferSize defines the buffer size for receipt and response channels
	DefaultChannelBufferSize = 100
	// DefaultChannelTimeout defines the timeout for non-blocking channel operations
	DefaultChannelTimeout = 1 * time.Second
	// DefaultPhoneRegion is assumed for phone numbers given without a country code
	DefaultPhoneRegion = "GB"
)

// ErrServiceStopped is returned when a send is attempted after Stop.
var ErrServiceStopped = errors.New("messaging service stopped")

// Service defines a pluggable message delivery abstraction. It supports
// sending messages and provides channels for receipt and response events.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a
	// recipient identifier. Each channel implements its own rules.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a message to a recipient.
	SendMessage(ctx context.Context, to string, body string) error

	// Start begins any background processing (e.g., event polling).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error

	// Receipts returns a channel of delivery status events.
	Receipts() <-chan models.Receipt

	// Responses returns a channel of incoming customer messages.
	Responses() <-chan models.Response
}

// CanonicalizePhone parses a phone number and returns it in E.164 format.
// Numbers without a country code are parsed against DefaultPhoneRegion.
func CanonicalizePhone(recipient string) (string, error) {
	if recipient == "" {
		return "", models.ErrEmptyRecipient
	}
	num, err := phonenumbers.Parse(recipient, DefaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", recipient, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", recipient)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
