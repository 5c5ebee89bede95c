package subscription

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/store"
)

func newTestService(t *testing.T, contacts store.ContactStore) *Service {
	t.Helper()
	svc, err := NewService(contacts, "https://mail.example.com", slog.Default())
	require.NoError(t, err)
	return svc
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, "https://mail.example.com", slog.Default())
	assert.Error(t, err, "nil contact store should be rejected")

	_, err = NewService(mocks.NewMockContactStore(), "", slog.Default())
	assert.Error(t, err, "empty base URL should be rejected")

	svc, err := NewService(mocks.NewMockContactStore(), "https://mail.example.com", nil)
	assert.NoError(t, err, "nil logger falls back to the default logger")
	assert.NotNil(t, svc)
}

func TestSubscribe_NewContact(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc := newTestService(t, contacts)
	projectID := uuid.New()

	contact, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubscribed, outcome)
	assert.Equal(t, domain.ContactStatusSubscribed, contact.Status)
	assert.Equal(t, "ada@example.com", contact.Email)
	assert.Equal(t, "Ada", contact.Name)

	stored, err := contacts.GetByID(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusSubscribed, stored.Status)
}

func TestSubscribe_AlreadySubscribed(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc := newTestService(t, contacts)
	projectID := uuid.New()

	first, _, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)

	second, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySubscribed, outcome)
	assert.Equal(t, first.ID, second.ID, "repeat subscribe must not create a new contact")
	assert.Equal(t, "Ada", second.Name, "repeat subscribe must not change state")
}

func TestSubscribe_Resubscribe(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc := newTestService(t, contacts)
	projectID := uuid.New()

	contact, _, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)

	_, err = svc.Unsubscribe(context.Background(), contact.ID)
	require.NoError(t, err)

	resubbed, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, OutcomeResubscribed, outcome)
	assert.Equal(t, contact.ID, resubbed.ID)
	assert.Equal(t, domain.ContactStatusSubscribed, resubbed.Status)
	assert.Equal(t, "Ada Lovelace", resubbed.Name, "resubscribe should refresh the name")
}

func TestSubscribe_ResubscribeKeepsNameWhenEmpty(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc := newTestService(t, contacts)
	projectID := uuid.New()

	contact, _, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)

	_, err = svc.Unsubscribe(context.Background(), contact.ID)
	require.NoError(t, err)

	resubbed, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "  ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeResubscribed, outcome)
	assert.Equal(t, "Ada", resubbed.Name)
}

func TestSubscribe_ExcludedStatusesStaySticky(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.ContactStatus{
		domain.ContactStatusBounced,
		domain.ContactStatusComplained,
	} {
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			contacts := mocks.NewMockContactStore()
			svc := newTestService(t, contacts)
			projectID := uuid.New()

			contact, err := domain.NewContact(projectID, "ada@example.com", "Ada")
			require.NoError(t, err)
			contact.Status = status
			contacts.AddContact(contact)

			result, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
			require.NoError(t, err)
			assert.Equal(t, OutcomeAlreadySubscribed, outcome)
			assert.Equal(t, status, result.Status, "subscribe must not reinstate an excluded contact")
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, mocks.NewMockContactStore())

	_, _, err := svc.Subscribe(context.Background(), uuid.New(), "   ", "Ada")
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, _, err = svc.Subscribe(context.Background(), uuid.Nil, "ada@example.com", "Ada")
	assert.ErrorIs(t, err, ErrMissingProjectID)
}

func TestSubscribe_DuplicateRaceResolvesAgainstWinner(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	projectID := uuid.New()
	winner, err := domain.NewContact(projectID, "ada@example.com", "Ada")
	require.NoError(t, err)

	// First lookup misses, Create reports a duplicate, second lookup
	// finds the concurrent winner's row.
	lookups := 0
	contacts.GetByProjectAndEmailFn = func(ctx context.Context, pid uuid.UUID, email string) (*domain.Contact, error) {
		lookups++
		if lookups == 1 {
			return nil, store.ErrContactNotFound
		}
		return winner, nil
	}
	contacts.CreateFn = func(ctx context.Context, contact *domain.Contact) error {
		return store.ErrContactExists
	}

	svc := newTestService(t, contacts)

	result, outcome, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySubscribed, outcome)
	assert.Equal(t, winner.ID, result.ID)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc := newTestService(t, contacts)
	projectID := uuid.New()

	contact, _, err := svc.Subscribe(context.Background(), projectID, "ada@example.com", "Ada")
	require.NoError(t, err)

	first, err := svc.Unsubscribe(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusUnsubscribed, first.Status)

	second, err := svc.Unsubscribe(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusUnsubscribed, second.Status)
}

func TestUnsubscribe_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, mocks.NewMockContactStore())

	_, err := svc.Unsubscribe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestUnsubscribeURL(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	svc, err := NewService(contacts, "https://mail.example.com/", slog.Default())
	require.NoError(t, err)

	contact, _, err := svc.Subscribe(context.Background(), uuid.New(), "ada@example.com", "Ada")
	require.NoError(t, err)

	u, err := svc.UnsubscribeURL(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://mail.example.com/api/contacts/unsubscribe?id="+contact.ID.String(), u)

	_, err = svc.UnsubscribeURL(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestServiceError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	wrapped := &ServiceError{Operation: "subscribe", Message: "failed", Err: inner}
	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "subscribe")
}
