// Package subscription implements the contact subscription state
// machine: subscribe, unsubscribe, resubscribe, and unsubscribe link
// generation, scoped per project.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/store"
)

// Outcome distinguishes the visible results of a subscribe call. The
// distinction is part of the API contract: downstream deliverability
// reporting depends on telling a new subscription from a resubscribe.
type Outcome string

// Possible subscribe outcomes
const (
	OutcomeSubscribed        Outcome = "subscribed"
	OutcomeResubscribed      Outcome = "resubscribed"
	OutcomeAlreadySubscribed Outcome = "already_subscribed"
)

// Common sentinel errors for the subscription service
var (
	// ErrContactNotFound indicates that the contact does not exist.
	ErrContactNotFound = errors.New("contact not found")

	// ErrMissingEmail indicates a subscribe call without an email address.
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingProjectID indicates a subscribe call without a project.
	ErrMissingProjectID = errors.New("project ID is required")
)

// ServiceError wraps errors from the subscription service with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "subscribe", "unsubscribe")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("subscription %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("subscription %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a ServiceError, passing known sentinels through
// unwrapped so callers can match on them directly.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrContactNotFound) {
		return ErrContactNotFound
	}

	if errors.Is(err, store.ErrContactNotFound) {
		return ErrContactNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// Service implements the subscription state machine over a ContactStore.
type Service struct {
	contacts store.ContactStore
	// publicBaseURL is the externally reachable base for unsubscribe links.
	publicBaseURL string
	logger        *slog.Logger
}

// NewService creates a subscription Service.
// It returns an error if any of the required dependencies are missing.
func NewService(contacts store.ContactStore, publicBaseURL string, logger *slog.Logger) (*Service, error) {
	if contacts == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "contact store cannot be nil",
		}
	}
	if publicBaseURL == "" {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "public base URL cannot be empty",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		contacts:      contacts,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With("component", "subscription_service"),
	}, nil
}

// Subscribe creates or reactivates a contact for the given project.
//
// State machine:
//   - no contact exists: create as subscribed (OutcomeSubscribed)
//   - existing contact is unsubscribed: flip back to subscribed,
//     refreshing the name if a new non-empty one is supplied
//     (OutcomeResubscribed)
//   - already subscribed: no state change (OutcomeAlreadySubscribed)
//   - bounced or complained: no state change. Those states are sticky so
//     a routine subscribe can never silently re-enable sends to an
//     address that bounced or complained.
func (s *Service) Subscribe(
	ctx context.Context,
	projectID uuid.UUID,
	email, name string,
) (*domain.Contact, Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", ErrMissingEmail
	}
	if projectID == uuid.Nil {
		return nil, "", ErrMissingProjectID
	}

	existing, err := s.contacts.GetByProjectAndEmail(ctx, projectID, email)
	switch {
	case err == nil:
		return s.subscribeExisting(ctx, existing, name)

	case errors.Is(err, store.ErrContactNotFound):
		// First subscribe for this (project, email) pair.
		contact, err := domain.NewContact(projectID, email, name)
		if err != nil {
			return nil, "", newServiceError("subscribe", "invalid contact data", err)
		}

		if err := s.contacts.Create(ctx, contact); err != nil {
			if store.IsDuplicateError(err) {
				// Lost a race with a concurrent subscribe for the same
				// pair; re-read and resolve against the winner's row.
				winner, getErr := s.contacts.GetByProjectAndEmail(ctx, projectID, email)
				if getErr != nil {
					return nil, "", newServiceError("subscribe", "failed to resolve concurrent subscribe", getErr)
				}
				return s.subscribeExisting(ctx, winner, name)
			}
			return nil, "", newServiceError("subscribe", "failed to create contact", err)
		}

		s.logger.Info("contact subscribed",
			"contact_id", contact.ID,
			"project_id", projectID)
		return contact, OutcomeSubscribed, nil

	default:
		return nil, "", newServiceError("subscribe", "failed to look up contact", err)
	}
}

// subscribeExisting applies the subscribe transition to a known contact.
func (s *Service) subscribeExisting(
	ctx context.Context,
	contact *domain.Contact,
	name string,
) (*domain.Contact, Outcome, error) {
	switch contact.Status {
	case domain.ContactStatusSubscribed:
		return contact, OutcomeAlreadySubscribed, nil

	case domain.ContactStatusUnsubscribed:
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			contact.Name = trimmed
		}
		if err := contact.UpdateStatus(domain.ContactStatusSubscribed); err != nil {
			return nil, "", newServiceError("subscribe", "invalid status transition", err)
		}
		if err := s.contacts.Update(ctx, contact); err != nil {
			return nil, "", newServiceError("subscribe", "failed to save resubscribed contact", err)
		}

		s.logger.Info("contact resubscribed",
			"contact_id", contact.ID,
			"project_id", contact.ProjectID)
		return contact, OutcomeResubscribed, nil

	default:
		// Bounced and complained contacts stay excluded; reinstatement
		// would need an explicit operator-level override.
		s.logger.Warn("subscribe ignored for excluded contact",
			"contact_id", contact.ID,
			"status", contact.Status)
		return contact, OutcomeAlreadySubscribed, nil
	}
}

// Unsubscribe sets the contact's status to unsubscribed. The operation
// is idempotent: unsubscribing an already-unsubscribed contact succeeds
// without a state change.
func (s *Service) Unsubscribe(ctx context.Context, contactID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, newServiceError("unsubscribe", "failed to look up contact", err)
	}

	if contact.Status == domain.ContactStatusUnsubscribed {
		return contact, nil
	}

	if err := contact.UpdateStatus(domain.ContactStatusUnsubscribed); err != nil {
		return nil, newServiceError("unsubscribe", "invalid status transition", err)
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, newServiceError("unsubscribe", "failed to save contact", err)
	}

	s.logger.Info("contact unsubscribed",
		"contact_id", contact.ID,
		"project_id", contact.ProjectID)
	return contact, nil
}

// UnsubscribeURL produces the stable unsubscribe link for a contact,
// verifying the contact exists. No state changes.
func (s *Service) UnsubscribeURL(ctx context.Context, contactID uuid.UUID) (string, error) {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return "", newServiceError("generate_unsubscribe_url", "failed to look up contact", err)
	}

	return s.URLFor(contact.ID), nil
}

// URLFor builds the unsubscribe link for a contact ID without touching
// the store. The dispatch scheduler uses it when rendering sends for
// contacts it has already loaded.
func (s *Service) URLFor(contactID uuid.UUID) string {
	return fmt.Sprintf("%s/api/contacts/unsubscribe?id=%s",
		s.publicBaseURL, url.QueryEscape(contactID.String()))
}
