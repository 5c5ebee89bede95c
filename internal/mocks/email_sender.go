package mocks

import (
	"context"
	"sync"

	"github.com/calebsw/lettermill-api/internal/delivery"
)

// MockEmailSender implements delivery.EmailSender for testing
type MockEmailSender struct {
	// Function field for customizable behavior
	SendFn func(ctx context.Context, msg delivery.Message) error

	// Default error returned when SendFn is unset
	SendError error

	// Call tracking for verification
	mu   sync.Mutex
	Sent []delivery.Message
}

// Send implements the delivery.EmailSender interface
func (m *MockEmailSender) Send(ctx context.Context, msg delivery.Message) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return m.SendError
}

// SentCount returns the number of Send calls observed so far.
func (m *MockEmailSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// SentTo reports whether a message was sent to the given address.
func (m *MockEmailSender) SentTo(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Sent {
		if msg.ToEmail == email {
			return true
		}
	}
	return false
}

// Verify interface compliance
var _ delivery.EmailSender = (*MockEmailSender)(nil)
