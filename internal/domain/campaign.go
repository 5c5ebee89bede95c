package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

// Possible campaign status values
const (
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Common validation errors for Campaign
var (
	ErrEmptyCampaignID        = errors.New("campaign ID cannot be empty")
	ErrEmptyCampaignProjectID = errors.New("campaign project ID cannot be empty")
	ErrEmptyCampaignName      = errors.New("campaign name cannot be empty")
	ErrEmptyCampaignSubject   = errors.New("campaign subject cannot be empty")
	ErrEmptyCampaignBody      = errors.New("campaign body cannot be empty")
	ErrInvalidCampaignStatus  = errors.New("invalid campaign status")
	ErrNoCampaignContacts     = errors.New("campaign must target at least one contact")
)

// Campaign represents a named batch email send targeting a fixed contact
// set. Membership is fixed at creation time; the campaign transitions to
// completed only when its driving task reaches a terminal state.
type Campaign struct {
	ID         uuid.UUID      `json:"id"`
	ProjectID  uuid.UUID      `json:"project_id"`
	Name       string         `json:"name"`
	Subject    string         `json:"subject"`
	Body       string         `json:"body"`
	Status     CampaignStatus `json:"status"`
	ContactIDs []uuid.UUID    `json:"contact_ids"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewCampaign creates a scheduled Campaign with a fixed contact set.
// Returns an error if validation fails.
func NewCampaign(projectID uuid.UUID, name, subject, body string, contactIDs []uuid.UUID) (*Campaign, error) {
	campaign := &Campaign{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Name:       name,
		Subject:    subject,
		Body:       body,
		Status:     CampaignStatusScheduled,
		ContactIDs: contactIDs,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	return campaign, nil
}

// Validate checks if the Campaign has valid data.
func (c *Campaign) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCampaignID
	}

	if c.ProjectID == uuid.Nil {
		return ErrEmptyCampaignProjectID
	}

	if c.Name == "" {
		return ErrEmptyCampaignName
	}

	if c.Subject == "" {
		return ErrEmptyCampaignSubject
	}

	if c.Body == "" {
		return ErrEmptyCampaignBody
	}

	if !isValidCampaignStatus(c.Status) {
		return ErrInvalidCampaignStatus
	}

	if len(c.ContactIDs) == 0 {
		return ErrNoCampaignContacts
	}

	return nil
}

// Complete marks the campaign as completed and bumps UpdatedAt.
func (c *Campaign) Complete() {
	c.Status = CampaignStatusCompleted
	c.UpdatedAt = time.Now().UTC()
}

// isValidCampaignStatus checks if the given status is a valid CampaignStatus.
func isValidCampaignStatus(status CampaignStatus) bool {
	switch status {
	case CampaignStatusScheduled, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}
