package delivery

import (
	"context"
	"log/slog"
)

// ConsoleSender logs messages instead of delivering them. Used in
// development when no provider credentials are configured.
type ConsoleSender struct {
	logger *slog.Logger
}

// Ensure ConsoleSender implements EmailSender
var _ EmailSender = (*ConsoleSender)(nil)

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSender{
		logger: logger.With("component", "console_sender"),
	}
}

// Send logs the message and reports success.
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("email delivery (console mode)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body_length", len(msg.Body))
	return nil
}
