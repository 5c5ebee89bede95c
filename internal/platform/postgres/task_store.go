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

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
//
// The Claim and ReclaimStale methods are single conditional UPDATE
// statements so the scheduler's mutual-exclusion guarantee holds across
// multiple application instances sharing one database.
type PostgresTaskStore struct {
	db store.DBTX
}

// Ensure PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, project_id, type, status, campaign_id, scheduled_at, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.ProjectID,
		task.Type,
		task.Status,
		task.CampaignID,
		task.ScheduledAt,
		task.ErrorMessage,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to save task",
			"task_id", task.ID,
			"task_type", task.Type,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := taskSelect + ` WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return task, nil
}

// GetByCampaignID implements store.TaskStore.GetByCampaignID
func (s *PostgresTaskStore) GetByCampaignID(ctx context.Context, campaignID uuid.UUID) (*domain.Task, error) {
	query := taskSelect + ` WHERE campaign_id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, campaignID))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return task, nil
}

// GetDue implements store.TaskStore.GetDue
func (s *PostgresTaskStore) GetDue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	query := taskSelect + `
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, domain.TaskStatusPending, now.UTC())
	if err != nil {
		log.Error("failed to query due tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// Claim implements store.TaskStore.Claim.
// The conditional UPDATE decides the winner: whoever flips the status
// sees one affected row, everyone else sees zero and skips the task.
func (s *PostgresTaskStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.TaskStatusProcessing,
		time.Now().UTC(),
		id,
		domain.TaskStatusPending,
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

// ReclaimStale implements store.TaskStore.ReclaimStale
func (s *PostgresTaskStore) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2, error_message = $3
		WHERE status = $4 AND updated_at < $5
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.TaskStatusPending,
		time.Now().UTC(),
		"reclaimed after stale processing",
		domain.TaskStatusProcessing,
		time.Now().UTC().Add(-olderThan),
	)
	if err != nil {
		log.Error("failed to reclaim stale tasks", "error", err)
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to update task status",
			"task_id", id,
			"status", status,
			"error", err)
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

const taskSelect = `
	SELECT id, project_id, type, status, campaign_id, scheduled_at, error_message, created_at, updated_at
	FROM tasks`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask maps a single row onto a domain.Task.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var errorMessage sql.NullString

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Type,
		&task.Status,
		&task.CampaignID,
		&task.ScheduledAt,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.ErrorMessage = errorMessage.String
	return &task, nil
}
