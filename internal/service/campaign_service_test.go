package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/store"
)

// newTestCampaignService builds the service over mocks, with the
// transaction runner replaced by a passthrough.
func newTestCampaignService(
	campaigns *mocks.MockCampaignStore,
	tasks *mocks.MockTaskStore,
	contacts *mocks.MockContactStore,
) *campaignServiceImpl {
	s := &campaignServiceImpl{
		campaigns: campaigns,
		tasks:     tasks,
		contacts:  contacts,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, (*sql.Tx)(nil))
	}
	return s
}

func seedContacts(t *testing.T, contacts *mocks.MockContactStore, projectID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		contact, err := domain.NewContact(projectID, uuid.NewString()+"@example.com", "Contact")
		require.NoError(t, err)
		contacts.AddContact(contact)
		ids = append(ids, contact.ID)
	}
	return ids
}

func TestCreateCampaign(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 3)

	campaign, task, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
		Name:       "Launch",
		Subject:    "Big news",
		Body:       "<p>Hello {{name}}</p>",
		ContactIDs: ids,
		EmailBlocks: []EmailBlock{
			{ScheduledDate: "2025-07-01", ScheduledTime: "09:30"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignStatusScheduled, campaign.Status)
	assert.Equal(t, campaign.ID, task.CampaignID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskTypeSendCampaign, task.Type)
	assert.Equal(t, time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC), task.ScheduledAt)

	// Both rows landed in their stores.
	_, err = campaigns.GetByID(context.Background(), campaign.ID)
	assert.NoError(t, err)
	_, err = tasks.GetByID(context.Background(), task.ID)
	assert.NoError(t, err)
}

func TestCreateCampaign_DefaultsToNow(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 1)

	for _, blocks := range [][]EmailBlock{
		nil,
		{{ScheduledDate: ""}},
	} {
		_, task, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
			Name:        "Launch",
			Subject:     "Big news",
			Body:        "body",
			ContactIDs:  ids,
			EmailBlocks: blocks,
		})
		require.NoError(t, err)
		assert.Equal(t, svc.now(), task.ScheduledAt, "missing schedule means send now")
	}
}

func TestCreateCampaign_DateOnlyBlock(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 1)

	_, task, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
		Name:        "Launch",
		Subject:     "Big news",
		Body:        "body",
		ContactIDs:  ids,
		EmailBlocks: []EmailBlock{{ScheduledDate: "2025-07-01"}},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), task.ScheduledAt)
}

func TestCreateCampaign_InvalidSchedule(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 1)

	_, _, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
		Name:        "Launch",
		Subject:     "Big news",
		Body:        "body",
		ContactIDs:  ids,
		EmailBlocks: []EmailBlock{{ScheduledDate: "July 1st"}},
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.Empty(t, campaigns.Campaigns, "nothing may be written on validation failure")
}

func TestCreateCampaign_UnknownContact(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	_, _, err := svc.CreateCampaign(context.Background(), uuid.New(), CreateCampaignInput{
		Name:       "Launch",
		Subject:    "Big news",
		Body:       "body",
		ContactIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestCreateCampaign_ForeignProjectContact(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	otherProject := uuid.New()
	ids := seedContacts(t, contacts, otherProject, 1)

	_, _, err := svc.CreateCampaign(context.Background(), uuid.New(), CreateCampaignInput{
		Name:       "Launch",
		Subject:    "Big news",
		Body:       "body",
		ContactIDs: ids,
	})
	assert.ErrorIs(t, err, ErrContactNotFound,
		"contacts from another project must be invisible")
}

func TestCreateCampaign_TransactionFailure(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)
	tasks.CreateError = errors.New("disk full")

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 1)

	_, _, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
		Name:       "Launch",
		Subject:    "Big news",
		Body:       "body",
		ContactIDs: ids,
	})
	require.Error(t, err)

	var svcErr *CampaignServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_campaign", svcErr.Operation)
}

func TestGetCampaign(t *testing.T) {
	t.Parallel()

	campaigns := mocks.NewMockCampaignStore()
	tasks := mocks.NewMockTaskStore()
	contacts := mocks.NewMockContactStore()
	svc := newTestCampaignService(campaigns, tasks, contacts)

	projectID := uuid.New()
	ids := seedContacts(t, contacts, projectID, 2)

	created, createdTask, err := svc.CreateCampaign(context.Background(), projectID, CreateCampaignInput{
		Name:       "Launch",
		Subject:    "Big news",
		Body:       "body",
		ContactIDs: ids,
	})
	require.NoError(t, err)

	campaign, task, err := svc.GetCampaign(context.Background(), projectID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, campaign.ID)
	assert.Equal(t, createdTask.ID, task.ID)

	// Another project cannot see it.
	_, _, err = svc.GetCampaign(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	// Unknown ID.
	_, _, err = svc.GetCampaign(context.Background(), projectID, uuid.New())
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}
