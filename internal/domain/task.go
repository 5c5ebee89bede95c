package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a scheduled task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskType identifies the kind of work a task represents.
type TaskType string

// Task type constants
const (
	// TaskTypeSendCampaign drives one campaign's dispatch.
	TaskTypeSendCampaign TaskType = "send_campaign"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrEmptyTaskProjectID  = errors.New("task project ID cannot be empty")
	ErrEmptyTaskCampaignID = errors.New("task campaign ID cannot be empty")
	ErrInvalidTaskType     = errors.New("invalid task type")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
)

// Task is a durable record of scheduled work with a due time and status.
// Exactly one task drives one campaign's send. A task never regresses
// status except processing back to pending during crash-recovery
// reclamation. Tasks are retained indefinitely as an audit record.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	ProjectID    uuid.UUID  `json:"project_id"`
	Type         TaskType   `json:"type"`
	Status       TaskStatus `json:"status"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewSendCampaignTask creates a pending send_campaign task due at
// scheduledAt. Returns an error if validation fails.
func NewSendCampaignTask(projectID, campaignID uuid.UUID, scheduledAt time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Type:        TaskTypeSendCampaign,
		Status:      TaskStatusPending,
		CampaignID:  campaignID,
		ScheduledAt: scheduledAt.UTC(),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.ProjectID == uuid.Nil {
		return ErrEmptyTaskProjectID
	}

	if t.Type != TaskTypeSendCampaign {
		return ErrInvalidTaskType
	}

	if t.CampaignID == uuid.Nil {
		return ErrEmptyTaskCampaignID
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Due reports whether the task is due at the given instant.
func (t *Task) Due(now time.Time) bool {
	return t.Status == TaskStatusPending && !t.ScheduledAt.After(now)
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusProcessing,
		TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}
