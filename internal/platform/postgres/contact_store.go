package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/platform/logger"
	"github.com/calebsw/lettermill-api/internal/store"
)

// PostgresContactStore implements the store.ContactStore interface using PostgreSQL.
type PostgresContactStore struct {
	db store.DBTX
}

// Ensure PostgresContactStore implements store.ContactStore
var _ store.ContactStore = (*PostgresContactStore)(nil)

// NewPostgresContactStore creates a new PostgresContactStore.
func NewPostgresContactStore(db store.DBTX) *PostgresContactStore {
	return &PostgresContactStore{db: db}
}

// Create implements store.ContactStore.Create
func (s *PostgresContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContext(ctx)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO contacts (id, project_id, email, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		contact.ID,
		contact.ProjectID,
		strings.ToLower(contact.Email),
		contact.Name,
		contact.Status,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrContactExists
		}
		log.Error("failed to create contact",
			"contact_id", contact.ID,
			"project_id", contact.ProjectID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ContactStore.GetByID
func (s *PostgresContactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT id, project_id, email, name, status, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`

	contact, err := scanContact(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrContactNotFound
		}
		return nil, MapError(err)
	}

	return contact, nil
}

// GetByProjectAndEmail implements store.ContactStore.GetByProjectAndEmail
func (s *PostgresContactStore) GetByProjectAndEmail(
	ctx context.Context,
	projectID uuid.UUID,
	email string,
) (*domain.Contact, error) {
	query := `
		SELECT id, project_id, email, name, status, created_at, updated_at
		FROM contacts
		WHERE project_id = $1 AND email = $2
	`

	contact, err := scanContact(s.db.QueryRowContext(ctx, query, projectID, strings.ToLower(email)))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrContactNotFound
		}
		return nil, MapError(err)
	}

	return contact, nil
}

// Update implements store.ContactStore.Update
func (s *PostgresContactStore) Update(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContext(ctx)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE contacts
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		contact.Name,
		contact.Status,
		time.Now().UTC(),
		contact.ID,
	)

	if err != nil {
		log.Error("failed to update contact",
			"contact_id", contact.ID,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return store.ErrContactNotFound
	}

	return nil
}

// WithTx implements store.ContactStore.WithTx
func (s *PostgresContactStore) WithTx(tx *sql.Tx) store.ContactStore {
	return &PostgresContactStore{db: tx}
}

// scanContact maps a single row onto a domain.Contact.
func scanContact(row *sql.Row) (*domain.Contact, error) {
	var contact domain.Contact
	var name sql.NullString

	err := row.Scan(
		&contact.ID,
		&contact.ProjectID,
		&contact.Email,
		&name,
		&contact.Status,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.Name = name.String
	return &contact, nil
}
