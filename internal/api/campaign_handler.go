package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/api/middleware"
	"github.com/calebsw/lettermill-api/internal/api/shared"
	"github.com/calebsw/lettermill-api/internal/service"
)

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaigns service.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaigns service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
	}
}

// Create handles POST /api/campaigns requests.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r)
	if !ok || projectID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Project ID not found or invalid")
		return
	}

	var req CreateCampaignRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	campaign, task, err := h.campaigns.CreateCampaign(r.Context(), projectID, service.CreateCampaignInput{
		Name:        req.Name,
		Subject:     req.Subject,
		Body:        req.Body,
		ContactIDs:  req.ContactIDs,
		EmailBlocks: req.EmailBlocks,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CampaignResponse{
		Campaign: campaign,
		Task:     task,
	})
}

// Get handles GET /api/campaigns/{id} requests, returning the campaign
// and the status of its driving task.
func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r)
	if !ok || projectID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Project ID not found or invalid")
		return
	}

	campaignID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid campaign ID")
		return
	}

	campaign, task, err := h.campaigns.GetCampaign(r.Context(), projectID, campaignID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CampaignResponse{
		Campaign: campaign,
		Task:     task,
	})
}
