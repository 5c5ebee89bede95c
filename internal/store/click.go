package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
)

// ClickStore defines the interface for click tracking persistence.
//
// MarkClicked is the compare-and-swap at the heart of the tracking
// redirector: concurrent first visits on the same tracking ID must
// resolve to exactly one in-place pending-to-clicked transition.
type ClickStore interface {
	// Create persists a new click row. Used both for canonical rows at
	// link-generation time and for append-only repeat-visit rows.
	Create(ctx context.Context, click *domain.Click) error

	// GetByID retrieves a click row by its tracking ID.
	// Returns ErrClickNotFound if the row does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Click, error)

	// MarkClicked atomically transitions the row from pending to clicked.
	// It reports whether this call performed the transition; a false
	// result with a nil error means the row was already clicked.
	MarkClicked(ctx context.Context, id uuid.UUID) (bool, error)

	// CountByEmailID returns the total number of click rows recorded for
	// a send, for engagement reporting.
	CountByEmailID(ctx context.Context, emailID uuid.UUID) (int64, error)

	// WithTx returns a new ClickStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ClickStore
}
