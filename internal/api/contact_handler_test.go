package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/lettermill-api/internal/domain"
	"github.com/calebsw/lettermill-api/internal/mocks"
	"github.com/calebsw/lettermill-api/internal/subscription"
)

func newContactHandler(t *testing.T, contacts *mocks.MockContactStore) *ContactHandler {
	t.Helper()
	svc, err := subscription.NewService(contacts, "https://mail.example.com", slog.Default())
	require.NoError(t, err)
	return NewContactHandler(svc)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSubscribe_New(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	h := newContactHandler(t, contacts)

	rec := postJSON(t, h.Subscribe, "/api/contacts/subscribe", SubscribeRequest{
		Email:     "ada@example.com",
		Name:      "Ada",
		ProjectID: uuid.NewString(),
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp SubscribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "subscribed", resp.Result)
	assert.Equal(t, "ada@example.com", resp.Contact.Email)
}

func TestSubscribe_Repeat(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	h := newContactHandler(t, contacts)
	req := SubscribeRequest{
		Email:     "ada@example.com",
		Name:      "Ada",
		ProjectID: uuid.NewString(),
	}

	rec := postJSON(t, h.Subscribe, "/api/contacts/subscribe", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Subscribe, "/api/contacts/subscribe", req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SubscribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "already_subscribed", resp.Result)
}

func TestSubscribe_BadRequest(t *testing.T) {
	t.Parallel()

	h := newContactHandler(t, mocks.NewMockContactStore())

	tests := []struct {
		name string
		req  SubscribeRequest
	}{
		{"missing email", SubscribeRequest{ProjectID: uuid.NewString()}},
		{"bad email", SubscribeRequest{Email: "not-an-email", ProjectID: uuid.NewString()}},
		{"missing project", SubscribeRequest{Email: "ada@example.com"}},
		{"bad project id", SubscribeRequest{Email: "ada@example.com", ProjectID: "nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Subscribe, "/api/contacts/subscribe", tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSubscribe_MalformedBody(t *testing.T) {
	t.Parallel()

	h := newContactHandler(t, mocks.NewMockContactStore())

	req := httptest.NewRequest(http.MethodPost, "/api/contacts/subscribe",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Subscribe(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	h := newContactHandler(t, contacts)

	contact, err := domain.NewContact(uuid.New(), "ada@example.com", "Ada")
	require.NoError(t, err)
	contacts.AddContact(contact)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/unsubscribe?id="+contact.ID.String(), nil)
	rec := httptest.NewRecorder()
	h.Unsubscribe(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp UnsubscribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ContactStatusUnsubscribed, resp.Contact.Status)

	// Idempotent: a second click on the same link still succeeds.
	rec = httptest.NewRecorder()
	h.Unsubscribe(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnsubscribe_Errors(t *testing.T) {
	t.Parallel()

	h := newContactHandler(t, mocks.NewMockContactStore())

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing id", "/api/contacts/unsubscribe", http.StatusBadRequest},
		{"bad id", "/api/contacts/unsubscribe?id=nope", http.StatusBadRequest},
		{"unknown id", "/api/contacts/unsubscribe?id=" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			h.Unsubscribe(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestGenerateUnsubscribeURL(t *testing.T) {
	t.Parallel()

	contacts := mocks.NewMockContactStore()
	h := newContactHandler(t, contacts)

	contact, err := domain.NewContact(uuid.New(), "ada@example.com", "Ada")
	require.NoError(t, err)
	contacts.AddContact(contact)

	rec := postJSON(t, h.GenerateUnsubscribeURL, "/api/contacts/generate-unsubscribe-url",
		GenerateUnsubscribeURLRequest{ContactID: contact.ID.String()})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateUnsubscribeURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t,
		"https://mail.example.com/api/contacts/unsubscribe?id="+contact.ID.String(),
		resp.UnsubscribeURL)
}

func TestGenerateUnsubscribeURL_UnknownContact(t *testing.T) {
	t.Parallel()

	h := newContactHandler(t, mocks.NewMockContactStore())

	rec := postJSON(t, h.GenerateUnsubscribeURL, "/api/contacts/generate-unsubscribe-url",
		GenerateUnsubscribeURLRequest{ContactID: uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
