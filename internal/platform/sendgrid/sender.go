// Package sendgrid adapts the SendGrid v3 mail send API to the
// delivery.EmailSender interface.
package sendgrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/calebsw/lettermill-api/internal/delivery"
)

// Sender delivers messages through SendGrid.
type Sender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

// Ensure Sender implements delivery.EmailSender
var _ delivery.EmailSender = (*Sender)(nil)

// NewSender creates a SendGrid-backed sender.
func NewSender(apiKey, fromEmail, fromName string, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger.With("component", "sendgrid_sender"),
	}
}

// Send implements delivery.EmailSender.Send.
// The per-attempt timeout comes in on the context; SendWithContext
// aborts the HTTP request when it expires.
func (s *Sender) Send(ctx context.Context, msg delivery.Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)

	// Plain-text part mirrors the HTML body; campaign bodies in this
	// system are authored as a single template.
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected message",
			"to", msg.ToEmail,
			"status_code", response.StatusCode)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	s.logger.Debug("message accepted by sendgrid",
		"to", msg.ToEmail,
		"status_code", response.StatusCode)
	return nil
}
