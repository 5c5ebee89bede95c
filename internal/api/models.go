package api

import (
	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/service"
)

// Common request/response structures

// SubscribeRequest defines the payload for the contact subscribe endpoint.
type SubscribeRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Name      string `json:"name"      validate:"max=200"`
	ProjectID string `json:"projectId" validate:"required,uuid"`
}

// SubscribeResponse defines the response for the contact subscribe endpoint.
type SubscribeResponse struct {
	// Result discriminates what the subscribe call did:
	// subscribed, resubscribed, or already_subscribed.
	Result  string          `json:"result"`
	Contact *domain.Contact `json:"contact"`
}

// UnsubscribeResponse defines the response for the unsubscribe endpoint.
type UnsubscribeResponse struct {
	Message string          `json:"message"`
	Contact *domain.Contact `json:"contact"`
}

// GenerateUnsubscribeURLRequest defines the payload for the
// unsubscribe-URL generation endpoint.
type GenerateUnsubscribeURLRequest struct {
	ContactID string `json:"contactId" validate:"required,uuid"`
}

// GenerateUnsubscribeURLResponse carries the generated link.
type GenerateUnsubscribeURLResponse struct {
	UnsubscribeURL string `json:"unsubscribeUrl"`
}

// CreateCampaignRequest defines the payload for campaign creation.
type CreateCampaignRequest struct {
	Name        string               `json:"name"        validate:"required,max=200"`
	Subject     string               `json:"subject"     validate:"required,max=500"`
	Body        string               `json:"body"        validate:"required"`
	ContactIDs  []uuid.UUID          `json:"contactIds"  validate:"required,min=1"`
	EmailBlocks []service.EmailBlock `json:"emailBlocks" validate:"dive"`
}

// CampaignResponse defines the response for campaign endpoints.
type CampaignResponse struct {
	Campaign *domain.Campaign `json:"campaign"`
	Task     *domain.Task     `json:"task"`
}

// ProcessDueResponse defines the response for the process-due endpoint.
type ProcessDueResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}
