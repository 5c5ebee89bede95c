package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactStatus represents a contact's subscription state within a project.
type ContactStatus string

// Possible contact status values
const (
	ContactStatusSubscribed   ContactStatus = "subscribed"
	ContactStatusUnsubscribed ContactStatus = "unsubscribed"
	ContactStatusBounced      ContactStatus = "bounced"
	ContactStatusComplained   ContactStatus = "complained"
)

// Common validation errors for Contact
var (
	ErrEmptyContactID        = errors.New("contact ID cannot be empty")
	ErrEmptyContactProjectID = errors.New("contact project ID cannot be empty")
	ErrEmptyContactEmail     = errors.New("contact email cannot be empty")
	ErrInvalidContactStatus  = errors.New("invalid contact status")
)

// Contact represents a project-scoped recipient identity. At most one
// Contact exists per (ProjectID, Email) pair; the subscription state
// machine mutates Status but never hard-deletes the row.
type Contact struct {
	ID        uuid.UUID     `json:"id"`
	ProjectID uuid.UUID     `json:"project_id"`
	Email     string        `json:"email"`
	Name      string        `json:"name,omitempty"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewContact creates a Contact in the subscribed state for the given
// project and email. Returns an error if validation fails.
func NewContact(projectID uuid.UUID, email, name string) (*Contact, error) {
	contact := &Contact{
		ID:        uuid.New(),
		ProjectID: projectID,
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Status:    ContactStatusSubscribed,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}

	return contact, nil
}

// Validate checks if the Contact has valid data.
func (c *Contact) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContactID
	}

	if c.ProjectID == uuid.Nil {
		return ErrEmptyContactProjectID
	}

	if c.Email == "" {
		return ErrEmptyContactEmail
	}

	if !isValidContactStatus(c.Status) {
		return ErrInvalidContactStatus
	}

	return nil
}

// Eligible reports whether the contact may receive new sends.
// Only subscribed contacts are eligible recipients.
func (c *Contact) Eligible() bool {
	return c.Status == ContactStatusSubscribed
}

// UpdateStatus sets the contact's status and bumps the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (c *Contact) UpdateStatus(status ContactStatus) error {
	if !isValidContactStatus(status) {
		return ErrInvalidContactStatus
	}

	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidContactStatus checks if the given status is a valid ContactStatus.
func isValidContactStatus(status ContactStatus) bool {
	switch status {
	case ContactStatusSubscribed, ContactStatusUnsubscribed,
		ContactStatusBounced, ContactStatusComplained:
		return true
	default:
		return false
	}
}
