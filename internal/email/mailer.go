package email

import (
	"context"
	"log/slog"
)

// Mailer delivers a magic-link email. Implementations must be swappable;
// the auth service only sees this interface.
type Mailer interface {
	SendMagicLink(ctx context.Context, toEmail, verifyURL string) error
}

// LogMailer writes the verification URL to the log instead of sending
// email. Used in development and whenever no Postmark token is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendMagicLink(_ context.Context, toEmail, verifyURL string) error {
	m.logger.Info("magic link (not sent, no email provider configured)",
		"email", toEmail, "url", verifyURL)
	return nil
}
