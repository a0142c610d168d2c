// Package email delivers transactional emails.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/middleware"
	"github.com/resend/resend-go/v2"
)

// emailsAPI is the part of the Resend client the mailer calls.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	emails emailsAPI
	from   string
}

var _ portssvc.EmailSender = (*ResendMailer)(nil)

func NewResendMailer(apiKey string, from string) *ResendMailer {
	return newResendMailer(resend.NewClient(apiKey).Emails, from)
}

func newResendMailer(emails emailsAPI, from string) *ResendMailer {
	return &ResendMailer{emails: emails, from: from}
}

func (m *ResendMailer) SendEmail(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return errors.New("email recipient is empty")
	}
	resp, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	if resp != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("Email accepted by Resend", slog.String("email_id", resp.Id))
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them. It is used when
// no Resend API key is configured, e.g. in local development.
type LogMailer struct {
	logger *slog.Logger
}

var _ portssvc.EmailSender = (*LogMailer)(nil)

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendEmail(_ context.Context, to, subject, html string) error {
	m.logger.Info("Email not sent, no provider configured",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(html)))
	return nil
}

// NewMailer picks Resend when an API key is configured and the log mailer otherwise.
func NewMailer(apiKey, from string, logger *slog.Logger) portssvc.EmailSender {
	if apiKey == "" {
		logger.Warn("RESEND_API_KEY is empty, emails will only be logged")
		return NewLogMailer(logger)
	}
	return NewResendMailer(apiKey, from)
}
