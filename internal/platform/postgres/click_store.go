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

// PostgresClickStore implements the store.ClickStore interface using PostgreSQL.
//
// MarkClicked is a single conditional UPDATE so that concurrent first
// visits on the same tracking ID resolve to exactly one in-place
// transition without a read-then-write race.
type PostgresClickStore struct {
	db store.DBTX
}

// Ensure PostgresClickStore implements store.ClickStore
var _ store.ClickStore = (*PostgresClickStore)(nil)

// NewPostgresClickStore creates a new PostgresClickStore.
func NewPostgresClickStore(db store.DBTX) *PostgresClickStore {
	return &PostgresClickStore{db: db}
}

// Create implements store.ClickStore.Create
func (s *PostgresClickStore) Create(ctx context.Context, click *domain.Click) error {
	log := logger.FromContext(ctx)

	if err := click.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO clicks (id, email_id, link, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		click.ID,
		click.EmailID,
		click.Link,
		click.Status,
		click.CreatedAt,
		click.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create click",
			"click_id", click.ID,
			"email_id", click.EmailID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.ClickStore.GetByID
func (s *PostgresClickStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Click, error) {
	query := `
		SELECT id, email_id, link, status, created_at, updated_at
		FROM clicks
		WHERE id = $1
	`

	var click domain.Click
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&click.ID,
		&click.EmailID,
		&click.Link,
		&click.Status,
		&click.CreatedAt,
		&click.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrClickNotFound
		}
		return nil, MapError(err)
	}

	return &click, nil
}

// MarkClicked implements store.ClickStore.MarkClicked
func (s *PostgresClickStore) MarkClicked(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE clicks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.ClickStatusClicked,
		time.Now().UTC(),
		id,
		domain.ClickStatusPending,
	)
	if err != nil {
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// CountByEmailID implements store.ClickStore.CountByEmailID
func (s *PostgresClickStore) CountByEmailID(ctx context.Context, emailID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM clicks
		WHERE email_id = $1 AND status = $2
	`

	var count int64
	err := s.db.QueryRowContext(ctx, query, emailID, domain.ClickStatusClicked).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// WithTx implements store.ClickStore.WithTx
func (s *PostgresClickStore) WithTx(tx *sql.Tx) store.ClickStore {
	return &PostgresClickStore{db: tx}
}
