package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/store"
)

// Schedule layout strings for email block date/time fields
const (
	scheduleDateLayout     = "2006-01-02"
	scheduleDateTimeLayout = "2006-01-02 15:04"
)

// EmailBlock is the campaign editor's scheduling block. Only the first
// block determines when the driving task becomes due.
type EmailBlock struct {
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
}

// CreateCampaignInput carries the fields needed to create a campaign.
type CreateCampaignInput struct {
	Name        string
	Subject     string
	Body        string
	ContactIDs  []uuid.UUID
	EmailBlocks []EmailBlock
}

// CampaignService provides campaign-related operations
type CampaignService interface {
	// CreateCampaign creates a campaign and its driving send task in a
	// single transaction.
	CreateCampaign(ctx context.Context, projectID uuid.UUID, input CreateCampaignInput) (*domain.Campaign, *domain.Task, error)

	// GetCampaign retrieves a campaign and its driving task, scoped to
	// the caller's project.
	GetCampaign(ctx context.Context, projectID, campaignID uuid.UUID) (*domain.Campaign, *domain.Task, error)
}

// Common sentinel errors for CampaignService
var (
	// ErrCampaignNotFound indicates that the campaign does not exist in
	// the caller's project.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrContactNotFound indicates a target contact that does not exist
	// in the caller's project.
	ErrContactNotFound = errors.New("contact not found")

	// ErrInvalidSchedule indicates an email block with an unparseable
	// date or time.
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// CampaignServiceError wraps errors from the campaign service with context.
type CampaignServiceError struct {
	// Operation is the operation that failed (e.g., "create_campaign")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for CampaignServiceError.
func (e *CampaignServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("campaign service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("campaign service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CampaignServiceError) Unwrap() error {
	return e.Err
}

// NewCampaignServiceError creates a new CampaignServiceError.
// It returns known sentinel errors directly without wrapping.
func NewCampaignServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCampaignNotFound) || errors.Is(err, store.ErrCampaignNotFound) {
		return ErrCampaignNotFound
	}
	if errors.Is(err, ErrContactNotFound) || errors.Is(err, store.ErrContactNotFound) {
		return ErrContactNotFound
	}
	if errors.Is(err, ErrInvalidSchedule) {
		return err
	}

	return &CampaignServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// campaignServiceImpl implements the CampaignService interface
type campaignServiceImpl struct {
	db        *sql.DB
	campaigns store.CampaignStore
	tasks     store.TaskStore
	contacts  store.ContactStore
	logger    *slog.Logger
	// runTx is swappable for tests; defaults to store.RunInTransaction.
	runTx func(ctx context.Context, fn store.TxFn) error
	// now is swappable for tests
	now func() time.Time
}

// NewCampaignService creates a new CampaignService.
// It returns an error if any of the required dependencies are nil.
func NewCampaignService(
	db *sql.DB,
	campaigns store.CampaignStore,
	tasks store.TaskStore,
	contacts store.ContactStore,
	logger *slog.Logger,
) (CampaignService, error) {
	if db == nil {
		return nil, &CampaignServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if campaigns == nil {
		return nil, &CampaignServiceError{
			Operation: "create_service",
			Message:   "campaign store cannot be nil",
		}
	}
	if tasks == nil {
		return nil, &CampaignServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if contacts == nil {
		return nil, &CampaignServiceError{
			Operation: "create_service",
			Message:   "contact store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &campaignServiceImpl{
		db:        db,
		campaigns: campaigns,
		tasks:     tasks,
		contacts:  contacts,
		logger:    logger.With("component", "campaign_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s, nil
}

// CreateCampaign creates a campaign and its driving send task atomically:
// a campaign row must never exist without the task that will dispatch it.
func (s *campaignServiceImpl) CreateCampaign(
	ctx context.Context,
	projectID uuid.UUID,
	input CreateCampaignInput,
) (*domain.Campaign, *domain.Task, error) {
	scheduledAt, err := s.resolveScheduledAt(input.EmailBlocks)
	if err != nil {
		return nil, nil, err
	}

	// Targets must exist in the caller's project before anything is
	// written.
	for _, contactID := range input.ContactIDs {
		contact, err := s.contacts.GetByID(ctx, contactID)
		if err != nil {
			return nil, nil, NewCampaignServiceError("create_campaign", "failed to resolve target contact", err)
		}
		if contact.ProjectID != projectID {
			return nil, nil, ErrContactNotFound
		}
	}

	campaign, err := domain.NewCampaign(projectID, input.Name, input.Subject, input.Body, input.ContactIDs)
	if err != nil {
		return nil, nil, NewCampaignServiceError("create_campaign", "invalid campaign data", err)
	}

	task, err := domain.NewSendCampaignTask(projectID, campaign.ID, scheduledAt)
	if err != nil {
		return nil, nil, NewCampaignServiceError("create_campaign", "invalid task data", err)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.campaigns.WithTx(tx).Create(ctx, campaign); err != nil {
			return fmt.Errorf("failed to save campaign: %w", err)
		}
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create campaign",
			"error", err,
			"project_id", projectID)
		return nil, nil, NewCampaignServiceError("create_campaign", "transaction failed", err)
	}

	s.logger.Info("campaign created",
		"campaign_id", campaign.ID,
		"project_id", projectID,
		"recipients", len(input.ContactIDs),
		"scheduled_at", task.ScheduledAt)
	return campaign, task, nil
}

// GetCampaign retrieves a campaign and its driving task. Campaigns
// belonging to other projects are reported as not found.
func (s *campaignServiceImpl) GetCampaign(
	ctx context.Context,
	projectID, campaignID uuid.UUID,
) (*domain.Campaign, *domain.Task, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, nil, NewCampaignServiceError("get_campaign", "failed to load campaign", err)
	}
	if campaign.ProjectID != projectID {
		return nil, nil, ErrCampaignNotFound
	}

	task, err := s.tasks.GetByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, nil, NewCampaignServiceError("get_campaign", "failed to load driving task", err)
	}

	return campaign, task, nil
}

// resolveScheduledAt derives the task due time from the first email
// block. A missing block or date means send now.
func (s *campaignServiceImpl) resolveScheduledAt(blocks []EmailBlock) (time.Time, error) {
	if len(blocks) == 0 || blocks[0].ScheduledDate == "" {
		return s.now(), nil
	}

	block := blocks[0]
	if block.ScheduledTime == "" {
		at, err := time.Parse(scheduleDateLayout, block.ScheduledDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidSchedule, block.ScheduledDate)
		}
		return at.UTC(), nil
	}

	at, err := time.Parse(scheduleDateTimeLayout, block.ScheduledDate+" "+block.ScheduledTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date/time %q %q", ErrInvalidSchedule,
			block.ScheduledDate, block.ScheduledTime)
	}
	return at.UTC(), nil
}
