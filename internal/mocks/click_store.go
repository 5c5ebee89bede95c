package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/store"
)

// MockClickStore implements store.ClickStore for testing
type MockClickStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, click *domain.Click) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Click, error)
	MarkClickedFn    func(ctx context.Context, id uuid.UUID) (bool, error)
	CountByEmailIDFn func(ctx context.Context, emailID uuid.UUID) (int64, error)

	// Data for default implementation
	mu     sync.Mutex
	Clicks map[uuid.UUID]*domain.Click

	CreateError error
}

// NewMockClickStore creates a new mock store with initialized defaults
func NewMockClickStore() *MockClickStore {
	return &MockClickStore{
		Clicks: make(map[uuid.UUID]*domain.Click),
	}
}

// AddClick seeds the in-memory store with a click row.
func (m *MockClickStore) AddClick(click *domain.Click) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks[click.ID] = click
}

// Create implements the ClickStore interface
func (m *MockClickStore) Create(ctx context.Context, click *domain.Click) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, click)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks[click.ID] = click
	return nil
}

// GetByID implements the ClickStore interface
func (m *MockClickStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Click, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	click, exists := m.Clicks[id]
	if !exists {
		return nil, store.ErrClickNotFound
	}
	return click, nil
}

// MarkClicked implements the ClickStore interface. The default
// implementation preserves the compare-and-swap contract: under
// concurrent calls for the same pending row, exactly one observes true.
func (m *MockClickStore) MarkClicked(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkClickedFn != nil {
		return m.MarkClickedFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	click, exists := m.Clicks[id]
	if !exists || click.Status != domain.ClickStatusPending {
		return false, nil
	}
	click.Status = domain.ClickStatusClicked
	click.UpdatedAt = time.Now().UTC()
	return true, nil
}

// CountByEmailID implements the ClickStore interface
func (m *MockClickStore) CountByEmailID(ctx context.Context, emailID uuid.UUID) (int64, error) {
	if m.CountByEmailIDFn != nil {
		return m.CountByEmailIDFn(ctx, emailID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, click := range m.Clicks {
		if click.EmailID == emailID && click.Status == domain.ClickStatusClicked {
			count++
		}
	}
	return count, nil
}

// WithTx implements the ClickStore interface
func (m *MockClickStore) WithTx(tx *sql.Tx) store.ClickStore {
	return m
}

// Verify interface compliance
var _ store.ClickStore = (*MockClickStore)(nil)
