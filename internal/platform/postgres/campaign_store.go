package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/platform/logger"
	"github.com/calebsw/lettermill-api/internal/store"
)

// PostgresCampaignStore implements the store.CampaignStore interface using PostgreSQL.
type PostgresCampaignStore struct {
	db store.DBTX
}

// Ensure PostgresCampaignStore implements store.CampaignStore
var _ store.CampaignStore = (*PostgresCampaignStore)(nil)

// NewPostgresCampaignStore creates a new PostgresCampaignStore.
func NewPostgresCampaignStore(db store.DBTX) *PostgresCampaignStore {
	return &PostgresCampaignStore{db: db}
}

// Create implements store.CampaignStore.Create.
// The campaign row and its contact membership are written together;
// callers that need atomicity run Create inside a transaction via WithTx.
func (s *PostgresCampaignStore) Create(ctx context.Context, campaign *domain.Campaign) error {
	log := logger.FromContext(ctx)

	if err := campaign.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO campaigns (id, project_id, name, subject, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		campaign.ID,
		campaign.ProjectID,
		campaign.Name,
		campaign.Subject,
		campaign.Body,
		campaign.Status,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create campaign",
			"campaign_id", campaign.ID,
			"project_id", campaign.ProjectID,
			"error", err)
		return MapError(err)
	}

	// Membership is fixed at creation time.
	memberQuery := `
		INSERT INTO campaign_contacts (campaign_id, contact_id)
		VALUES ($1, $2)
	`
	for _, contactID := range campaign.ContactIDs {
		if _, err := s.db.ExecContext(ctx, memberQuery, campaign.ID, contactID); err != nil {
			log.Error("failed to attach contact to campaign",
				"campaign_id", campaign.ID,
				"contact_id", contactID,
				"error", err)
			return MapError(err)
		}
	}

	return nil
}

// GetByID implements store.CampaignStore.GetByID
func (s *PostgresCampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := `
		SELECT id, project_id, name, subject, body, status, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var campaign domain.Campaign
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.ProjectID,
		&campaign.Name,
		&campaign.Subject,
		&campaign.Body,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrCampaignNotFound
		}
		return nil, MapError(err)
	}

	memberQuery := `
		SELECT contact_id
		FROM campaign_contacts
		WHERE campaign_id = $1
	`
	rows, err := s.db.QueryContext(ctx, memberQuery, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var contactID uuid.UUID
		if err := rows.Scan(&contactID); err != nil {
			return nil, fmt.Errorf("failed to scan campaign contact row: %w", err)
		}
		campaign.ContactIDs = append(campaign.ContactIDs, contactID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign contact rows: %w", err)
	}

	return &campaign, nil
}

// GetContacts implements store.CampaignStore.GetContacts
func (s *PostgresCampaignStore) GetContacts(ctx context.Context, campaignID uuid.UUID) ([]*domain.Contact, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT c.id, c.project_id, c.email, c.name, c.status, c.created_at, c.updated_at
		FROM contacts c
		JOIN campaign_contacts cc ON cc.contact_id = c.id
		WHERE cc.campaign_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		log.Error("failed to query campaign contacts",
			"campaign_id", campaignID,
			"error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []*domain.Contact
	for rows.Next() {
		var contact domain.Contact
		var name sql.NullString

		err := rows.Scan(
			&contact.ID,
			&contact.ProjectID,
			&contact.Email,
			&name,
			&contact.Status,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}

		contact.Name = name.String
		contacts = append(contacts, &contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}

	return contacts, nil
}

// UpdateStatus implements store.CampaignStore.UpdateStatus
func (s *PostgresCampaignStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.CampaignStatus,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE campaigns
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update campaign status",
			"campaign_id", id,
			"status", status,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return store.ErrCampaignNotFound
	}

	return nil
}

// WithTx implements store.CampaignStore.WithTx
func (s *PostgresCampaignStore) WithTx(tx *sql.Tx) store.CampaignStore {
	return &PostgresCampaignStore{db: tx}
}
