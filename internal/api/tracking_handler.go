package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/api/shared"
	"github.com/calebsw/lettermill-api/internal/tracking"
)

// TrackingHandler handles click tracking redirect requests
type TrackingHandler struct {
	tracker *tracking.Service
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(tracker *tracking.Service) *TrackingHandler {
	return &TrackingHandler{
		tracker: tracker,
	}
}

// Redirect handles GET /track/{id} requests: record the visit and send
// the visitor on to the destination. Unknown IDs get a 404 rather than
// a redirect to anywhere attacker-controlled.
func (h *TrackingHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Tracked link not found")
		return
	}

	resolution, err := h.tracker.ResolveAndTrack(r.Context(), id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	http.Redirect(w, r, resolution.Destination, http.StatusFound)
}
