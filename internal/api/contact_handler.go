package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/api/shared"
	"github.com/calebsw/lettermill-api/internal/subscription"
)

// ContactHandler handles contact subscription HTTP requests
type ContactHandler struct {
	subscriptions *subscription.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(subscriptions *subscription.Service) *ContactHandler {
	return &ContactHandler{
		subscriptions: subscriptions,
	}
}

// Subscribe handles POST /api/contacts/subscribe requests.
// A new subscription returns 201; resubscribes and repeat subscribes
// return 200 with the result discriminator telling them apart.
func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	contact, outcome, err := h.subscriptions.Subscribe(r.Context(), projectID, req.Email, req.Name)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusOK
	if outcome == subscription.OutcomeSubscribed {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, SubscribeResponse{
		Result:  string(outcome),
		Contact: contact,
	})
}

// Unsubscribe handles GET /api/contacts/unsubscribe requests. The
// endpoint is a GET because it is the target of the unsubscribe link in
// delivered emails; it is idempotent.
func (h *ContactHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing contact ID")
		return
	}

	contactID, err := uuid.Parse(rawID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	contact, err := h.subscriptions.Unsubscribe(r.Context(), contactID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UnsubscribeResponse{
		Message: "You have been unsubscribed",
		Contact: contact,
	})
}

// GenerateUnsubscribeURL handles POST /api/contacts/generate-unsubscribe-url
// requests.
func (h *ContactHandler) GenerateUnsubscribeURL(w http.ResponseWriter, r *http.Request) {
	var req GenerateUnsubscribeURLRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	u, err := h.subscriptions.UnsubscribeURL(r.Context(), contactID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateUnsubscribeURLResponse{
		UnsubscribeURL: u,
	})
}
