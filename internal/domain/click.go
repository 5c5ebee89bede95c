package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ClickStatus represents the state of a tracked link row.
type ClickStatus string

// Possible click status values
const (
	ClickStatusPending ClickStatus = "pending"
	ClickStatusClicked ClickStatus = "clicked"
)

// Common validation errors for Click
var (
	ErrEmptyClickID       = errors.New("click ID cannot be empty")
	ErrEmptyClickEmailID  = errors.New("click email ID cannot be empty")
	ErrEmptyClickLink     = errors.New("click link cannot be empty")
	ErrInvalidClickStatus = errors.New("invalid click status")
)

// Click records an engagement event for a tracked link. The row created
// at link-generation time is the canonical pointer for "has this unique
// link been clicked at least once": its first visit flips it to clicked
// in place, while every later visit appends a fresh clicked row sharing
// the same EmailID and Link. Rows are never deleted.
type Click struct {
	ID        uuid.UUID   `json:"id"`
	EmailID   uuid.UUID   `json:"email_id"`
	Link      string      `json:"link"`
	Status    ClickStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewClick creates the canonical pending Click row for a tracked link.
// Returns an error if validation fails.
func NewClick(emailID uuid.UUID, link string) (*Click, error) {
	click := &Click{
		ID:        uuid.New(),
		EmailID:   emailID,
		Link:      link,
		Status:    ClickStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := click.Validate(); err != nil {
		return nil, err
	}

	return click, nil
}

// NewRepeatClick creates an append-only history row for a repeat visit,
// copying the canonical row's EmailID and Link under a fresh ID.
func NewRepeatClick(canonical *Click) *Click {
	return &Click{
		ID:        uuid.New(),
		EmailID:   canonical.EmailID,
		Link:      canonical.Link,
		Status:    ClickStatusClicked,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// Validate checks if the Click has valid data.
func (c *Click) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyClickID
	}

	if c.EmailID == uuid.Nil {
		return ErrEmptyClickEmailID
	}

	if c.Link == "" {
		return ErrEmptyClickLink
	}

	if !isValidClickStatus(c.Status) {
		return ErrInvalidClickStatus
	}

	return nil
}

// isValidClickStatus checks if the given status is a valid ClickStatus.
func isValidClickStatus(status ClickStatus) bool {
	switch status {
	case ClickStatusPending, ClickStatusClicked:
		return true
	default:
		return false
	}
}
