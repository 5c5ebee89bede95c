package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/config"
	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/platform/metrics"
	"github.com/calebsw/lettermill-api/internal/render"
	"github.com/calebsw/lettermill-api/internal/scheduler"
	"github.com/calebsw/lettermill-api/internal/service"
	"github.com/calebsw/lettermill-api/internal/subscription"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

// stubCampaignService satisfies service.CampaignService for router tests.
type stubCampaignService struct{}

func (s *stubCampaignService) CreateCampaign(
	ctx context.Context,
	projectID uuid.UUID,
	input service.CreateCampaignInput,
) (*domain.Campaign, *domain.Task, error) {
	return nil, nil, service.ErrCampaignNotFound
}

func (s *stubCampaignService) GetCampaign(
	ctx context.Context,
	projectID, campaignID uuid.UUID,
) (*domain.Campaign, *domain.Task, error) {
	return nil, nil, service.ErrCampaignNotFound
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.Default()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	contacts := mocks.NewMockContactStore()
	clicks := mocks.NewMockClickStore()
	tasks := mocks.NewMockTaskStore()
	campaigns := mocks.NewMockCampaignStore()

	subscriptionService, err := subscription.NewService(contacts, "http://localhost:8080", logger)
	require.NoError(t, err)

	trackingService, err := tracking.NewService(clicks, "http://localhost:8080", m, logger)
	require.NoError(t, err)

	dispatchScheduler, err := scheduler.New(
		tasks,
		campaigns,
		render.NewPlaceholderRenderer(),
		&mocks.MockEmailSender{},
		trackingService,
		subscriptionService,
		scheduler.DefaultConfig(),
		m,
		logger,
	)
	require.NoError(t, err)

	return &application{
		config: &config.Config{
			Auth: config.AuthConfig{
				JWTSecret: "test-secret-key-thirty-two-chars!",
			},
		},
		logger:              logger,
		registry:            registry,
		metrics:             m,
		subscriptionService: subscriptionService,
		trackingService:     trackingService,
		campaignService:     &stubCampaignService{},
		scheduler:           dispatchScheduler,
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestApplication(t).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestApplication(t).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "lettermill_scheduler_passes_total")
}

func TestRouterCampaignEndpointsRequireAuth(t *testing.T) {
	t.Parallel()

	router := newTestApplication(t).setupRouter()

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/campaigns", strings.NewReader("{}")),
		httptest.NewRequest(http.MethodGet, "/api/campaigns/"+uuid.NewString(), nil),
	}

	for _, req := range requests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestRouterPublicEndpointsReachable(t *testing.T) {
	t.Parallel()

	router := newTestApplication(t).setupRouter()

	// Malformed subscribe body reaches the handler and gets a 400, not
	// a 401 or 404.
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts/subscribe", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown tracking ID 404s rather than redirecting.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/track/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Process-due with nothing due reports zero processed.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/tasks/process-due", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"processed":0`)
}
