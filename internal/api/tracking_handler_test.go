package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

func newTrackingRouter(t *testing.T, clicks *mocks.MockClickStore) http.Handler {
	t.Helper()
	svc, err := tracking.NewService(clicks, "https://mail.example.com", nil, slog.Default())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/track/{id}", NewTrackingHandler(svc).Redirect)
	return r
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	clicks := mocks.NewMockClickStore()
	router := newTrackingRouter(t, clicks)

	click, err := domain.NewClick(uuid.New(), "https://example.com/sale")
	require.NoError(t, err)
	clicks.AddClick(click)

	req := httptest.NewRequest(http.MethodGet, "/track/"+click.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/sale", rec.Header().Get("Location"))
	assert.Equal(t, domain.ClickStatusClicked, clicks.Clicks[click.ID].Status)

	// Second visit still redirects and appends a history row.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track/"+click.ID.String(), nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/sale", rec.Header().Get("Location"))

	count, err := clicks.CountByEmailID(context.Background(), click.EmailID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedirect_NotFound(t *testing.T) {
	t.Parallel()

	router := newTrackingRouter(t, mocks.NewMockClickStore())

	for _, target := range []string{
		"/track/" + uuid.NewString(),
		"/track/not-a-uuid",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "target %s", target)
		assert.Empty(t, rec.Header().Get("Location"))
	}
}
