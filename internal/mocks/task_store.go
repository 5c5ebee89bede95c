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

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, task *domain.Task) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetByCampaignIDFn func(ctx context.Context, campaignID uuid.UUID) (*domain.Task, error)
	GetDueFn          func(ctx context.Context, now time.Time) ([]*domain.Task, error)
	ClaimFn           func(ctx context.Context, id uuid.UUID) (bool, error)
	ReclaimStaleFn    func(ctx context.Context, olderThan time.Duration) (int64, error)
	UpdateStatusFn    func(ctx context.Context, id uuid.UUID, status domain.TaskStatus, errorMsg string) error

	// Data for default implementation
	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task

	CreateError error
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// AddTask seeds the in-memory store with a task.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// GetByCampaignID implements the TaskStore interface
func (m *MockTaskStore) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) (*domain.Task, error) {
	if m.GetByCampaignIDFn != nil {
		return m.GetByCampaignIDFn(ctx, campaignID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range m.Tasks {
		if task.CampaignID == campaignID {
			return task, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

// GetDue implements the TaskStore interface
func (m *MockTaskStore) GetDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	if m.GetDueFn != nil {
		return m.GetDueFn(ctx, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*domain.Task
	for _, task := range m.Tasks {
		if task.Status == domain.TaskStatusPending && !task.ScheduledAt.After(now) {
			due = append(due, task)
		}
	}
	return due, nil
}

// Claim implements the TaskStore interface. The default implementation
// mirrors the conditional-update semantics of the real store: only one
// concurrent caller observes true for a given pending task.
func (m *MockTaskStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists || task.Status != domain.TaskStatusPending {
		return false, nil
	}
	task.Status = domain.TaskStatusProcessing
	task.UpdatedAt = time.Now().UTC()
	return true, nil
}

// ReclaimStale implements the TaskStore interface
func (m *MockTaskStore) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if m.ReclaimStaleFn != nil {
		return m.ReclaimStaleFn(ctx, olderThan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var reclaimed int64
	for _, task := range m.Tasks {
		if task.Status == domain.TaskStatusProcessing && task.UpdatedAt.Before(cutoff) {
			task.Status = domain.TaskStatusPending
			task.UpdatedAt = time.Now().UTC()
			reclaimed++
		}
	}
	return reclaimed, nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	errorMsg string,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status, errorMsg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return store.ErrTaskNotFound
	}
	task.Status = status
	task.ErrorMessage = errorMsg
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements the TaskStore interface
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// Verify interface compliance
var _ store.TaskStore = (*MockTaskStore)(nil)
