package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/render"
	"github.com/calebsw/lettermill-api/internal/scheduler"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

type noopLinker struct{}

func (noopLinker) URLFor(contactID uuid.UUID) string { return "https://mail.example.com/u" }

func newTaskHandler(t *testing.T, tasks *mocks.MockTaskStore, campaigns *mocks.MockCampaignStore) *TaskHandler {
	t.Helper()

	tracker, err := tracking.NewService(mocks.NewMockClickStore(), "https://mail.example.com", nil, slog.Default())
	require.NoError(t, err)

	s, err := scheduler.New(
		tasks, campaigns, render.NewPlaceholderRenderer(), &mocks.MockEmailSender{},
		tracker, noopLinker{}, scheduler.DefaultConfig(), nil, slog.Default(),
	)
	require.NoError(t, err)
	return NewTaskHandler(s)
}

func TestProcessDue(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	campaigns := mocks.NewMockCampaignStore()
	h := newTaskHandler(t, tasks, campaigns)

	projectID := uuid.New()
	contact, err := domain.NewContact(projectID, "ada@example.com", "Ada")
	require.NoError(t, err)
	campaign, err := domain.NewCampaign(projectID, "Launch", "Big news", "body",
		[]uuid.UUID{contact.ID})
	require.NoError(t, err)
	campaigns.AddCampaign(campaign, []*domain.Contact{contact})
	task, err := domain.NewSendCampaignTask(projectID, campaign.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	tasks.AddTask(task)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/process-due", nil)
	rec := httptest.NewRecorder()
	h.ProcessDue(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessDueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, domain.TaskStatusCompleted, tasks.Tasks[task.ID].Status)
}

func TestProcessDue_NothingDue(t *testing.T) {
	t.Parallel()

	h := newTaskHandler(t, mocks.NewMockTaskStore(), mocks.NewMockCampaignStore())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/process-due", nil)
	rec := httptest.NewRecorder()
	h.ProcessDue(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessDueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Processed)
}

func TestProcessDue_PassFailure(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMockTaskStore()
	tasks.GetDueFn = func(ctx context.Context, now time.Time) ([]*domain.Task, error) {
		return nil, errors.New("db down")
	}
	h := newTaskHandler(t, tasks, mocks.NewMockCampaignStore())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/process-due", nil)
	rec := httptest.NewRecorder()
	h.ProcessDue(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
