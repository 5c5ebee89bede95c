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

// MockCampaignStore implements store.CampaignStore for testing
type MockCampaignStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, campaign *domain.Campaign) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	GetContactsFn  func(ctx context.Context, campaignID uuid.UUID) ([]*domain.Contact, error)
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error

	// Data for default implementation
	mu        sync.Mutex
	Campaigns map[uuid.UUID]*domain.Campaign
	// Contacts backs GetContacts when GetContactsFn is unset; keyed by
	// campaign ID.
	Contacts map[uuid.UUID][]*domain.Contact

	CreateError error
}

// NewMockCampaignStore creates a new mock store with initialized defaults
func NewMockCampaignStore() *MockCampaignStore {
	return &MockCampaignStore{
		Campaigns: make(map[uuid.UUID]*domain.Campaign),
		Contacts:  make(map[uuid.UUID][]*domain.Contact),
	}
}

// AddCampaign seeds the in-memory store with a campaign and its contacts.
func (m *MockCampaignStore) AddCampaign(campaign *domain.Campaign, contacts []*domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Campaigns[campaign.ID] = campaign
	m.Contacts[campaign.ID] = contacts
}

// Create implements the CampaignStore interface
func (m *MockCampaignStore) Create(ctx context.Context, campaign *domain.Campaign) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, campaign)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Campaigns[campaign.ID] = campaign
	return nil
}

// GetByID implements the CampaignStore interface
func (m *MockCampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	campaign, exists := m.Campaigns[id]
	if !exists {
		return nil, store.ErrCampaignNotFound
	}
	return campaign, nil
}

// GetContacts implements the CampaignStore interface
func (m *MockCampaignStore) GetContacts(ctx context.Context, campaignID uuid.UUID) ([]*domain.Contact, error) {
	if m.GetContactsFn != nil {
		return m.GetContactsFn(ctx, campaignID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Campaigns[campaignID]; !exists {
		return nil, store.ErrCampaignNotFound
	}
	return m.Contacts[campaignID], nil
}

// UpdateStatus implements the CampaignStore interface
func (m *MockCampaignStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.CampaignStatus,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	campaign, exists := m.Campaigns[id]
	if !exists {
		return store.ErrCampaignNotFound
	}
	campaign.Status = status
	campaign.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements the CampaignStore interface
func (m *MockCampaignStore) WithTx(tx *sql.Tx) store.CampaignStore {
	return m
}

// Verify interface compliance
var _ store.CampaignStore = (*MockCampaignStore)(nil)
