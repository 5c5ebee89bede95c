package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
)

// ContactStore defines the interface for contact data persistence.
type ContactStore interface {
	// Create saves a new contact to the store.
	// Returns ErrContactExists if a contact with the same project/email
	// pair already exists.
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByID retrieves a contact by its unique ID.
	// Returns ErrContactNotFound if the contact does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)

	// GetByProjectAndEmail retrieves a contact by its unique
	// (project, email) pair. Returns ErrContactNotFound if absent.
	GetByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.Contact, error)

	// Update saves changes to an existing contact.
	// Returns ErrContactNotFound if the contact does not exist.
	Update(ctx context.Context, contact *domain.Contact) error

	// WithTx returns a new ContactStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ContactStore
}
