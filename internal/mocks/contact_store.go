package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/store"
)

// MockContactStore implements store.ContactStore for testing
type MockContactStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, contact *domain.Contact) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	GetByProjectAndEmailFn func(ctx context.Context, projectID uuid.UUID, email string) (*domain.Contact, error)
	UpdateFn               func(ctx context.Context, contact *domain.Contact) error

	// Data for default implementation
	mu       sync.Mutex
	Contacts map[uuid.UUID]*domain.Contact

	CreateError error
	UpdateError error
}

// NewMockContactStore creates a new mock store with initialized defaults
func NewMockContactStore() *MockContactStore {
	return &MockContactStore{
		Contacts: make(map[uuid.UUID]*domain.Contact),
	}
}

// AddContact seeds the in-memory store with a contact.
func (m *MockContactStore) AddContact(contact *domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts[contact.ID] = contact
}

// Create implements the ContactStore interface
func (m *MockContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, contact)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Contacts {
		if existing.ProjectID == contact.ProjectID &&
			strings.EqualFold(existing.Email, contact.Email) {
			return store.ErrContactExists
		}
	}

	m.Contacts[contact.ID] = contact
	return nil
}

// GetByID implements the ContactStore interface
func (m *MockContactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, exists := m.Contacts[id]
	if !exists {
		return nil, store.ErrContactNotFound
	}
	return contact, nil
}

// GetByProjectAndEmail implements the ContactStore interface
func (m *MockContactStore) GetByProjectAndEmail(
	ctx context.Context,
	projectID uuid.UUID,
	email string,
) (*domain.Contact, error) {
	if m.GetByProjectAndEmailFn != nil {
		return m.GetByProjectAndEmailFn(ctx, projectID, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, contact := range m.Contacts {
		if contact.ProjectID == projectID && strings.EqualFold(contact.Email, email) {
			return contact, nil
		}
	}
	return nil, store.ErrContactNotFound
}

// Update implements the ContactStore interface
func (m *MockContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, contact)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Contacts[contact.ID]; !exists {
		return store.ErrContactNotFound
	}
	m.Contacts[contact.ID] = contact
	return nil
}

// WithTx implements the ContactStore interface
func (m *MockContactStore) WithTx(tx *sql.Tx) store.ContactStore {
	return m
}

// Verify interface compliance
var _ store.ContactStore = (*MockContactStore)(nil)
