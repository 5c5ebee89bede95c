// Package delivery defines the narrow interfaces through which the
// dispatch scheduler consumes the external email delivery and template
// rendering capabilities. The scheduler depends only on these
// interfaces; concrete adapters live under internal/platform and
// internal/render.
package delivery

import (
	"context"

	"github.com/calebsw/lettermill-api/internal/domain"
)

// Message is a fully rendered email ready for handoff to a provider.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// EmailSender hands a rendered message to the delivery provider.
// Implementations must honor context cancellation; a timed-out send is
// reported as an error and counted as a per-recipient failure.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// RenderContext carries the per-recipient values available to a template.
type RenderContext struct {
	Contact        *domain.Contact
	UnsubscribeURL string
}

// TemplateRenderer produces the message body for one recipient from a
// campaign's body template.
type TemplateRenderer interface {
	Render(body string, rc RenderContext) (string, error)
}
