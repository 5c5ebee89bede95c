package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
)

// TaskStore defines the interface for persisting scheduled tasks.
//
// Claim and ReclaimStale are the two operations that carry the
// scheduler's cross-instance correctness guarantees; both must be
// implemented as single atomic conditional updates, never as
// read-then-write sequences.
type TaskStore interface {
	// Create persists a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByCampaignID retrieves the task driving the given campaign.
	// Returns ErrTaskNotFound if no task references the campaign.
	GetByCampaignID(ctx context.Context, campaignID uuid.UUID) (*domain.Task, error)

	// GetDue retrieves all pending tasks whose scheduled time is at or
	// before now, oldest first.
	GetDue(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// Claim atomically transitions a task from pending to processing.
	// It reports whether this caller won the claim; a false result with
	// a nil error means another invocation claimed the task first, which
	// is expected steady-state behavior and not an error.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// ReclaimStale resets tasks stuck in processing for longer than the
	// given window back to pending, returning the number of tasks
	// reclaimed. Used to guarantee at-least-once execution after a crash.
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error)

	// UpdateStatus sets a task's status and error message.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus, errorMsg string) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
