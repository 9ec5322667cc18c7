package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

// MockService is an in-memory Service for tests. Sent messages are recorded
// and inbound messages can be injected with InjectResponse.
type MockService struct {
	mu        sync.Mutex
	sent      []SentMessage
	SendErr   error
	receipts  chan models.Receipt
	responses chan models.Response
}

// SentMessage is one outbound message captured by the mock.
type SentMessage struct {
	To   string
	Body string
}

// NewMockService creates a mock messaging service.
func NewMockService() *MockService {
	return &MockService{
		receipts:  make(chan models.Receipt, DefaultChannelBufferSize),
		responses: make(chan models.Response, DefaultChannelBufferSize),
	}
}

func (m *MockService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	if recipient == "" {
		return "", models.ErrEmptyRecipient
	}
	return recipient, nil
}

func (m *MockService) SendMessage(ctx context.Context, to string, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{To: to, Body: body})
	m.mu.Unlock()
	return nil
}

func (m *MockService) Start(ctx context.Context) error { return nil }

func (m *MockService) Stop() error {
	close(m.receipts)
	close(m.responses)
	return nil
}

func (m *MockService) Receipts() <-chan models.Receipt   { return m.receipts }
func (m *MockService) Responses() <-chan models.Response { return m.responses }

// Sent returns a copy of the captured outbound messages.
func (m *MockService) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// InjectResponse simulates an inbound customer message.
func (m *MockService) InjectResponse(from, body string) {
	m.responses <- models.Response{From: from, Body: body, Time: time.Now().Unix()}
}
