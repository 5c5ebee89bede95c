package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
)

// CampaignStore defines the interface for campaign data persistence.
type CampaignStore interface {
	// Create saves a new campaign and its fixed contact membership.
	Create(ctx context.Context, campaign *domain.Campaign) error

	// GetByID retrieves a campaign, including its contact ID set.
	// Returns ErrCampaignNotFound if the campaign does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)

	// GetContacts retrieves the full contact rows belonging to a campaign.
	GetContacts(ctx context.Context, campaignID uuid.UUID) ([]*domain.Contact, error)

	// UpdateStatus sets the campaign's status.
	// Returns ErrCampaignNotFound if the campaign does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error

	// WithTx returns a new CampaignStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CampaignStore
}
