// Package mailer sends transactional email through SendGrid.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/parentalrights/complaint-portal-api/templates/html"
)

// Mailer sends one email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(toEmail, toName, subject, body string) error
}

// SendgridMailer sends branded HTML email via the SendGrid v3 API
type SendgridMailer struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendgridMailer returns a SendgridMailer with the portal sender identity
func NewSendgridMailer(apiKey string) *SendgridMailer {
	return &SendgridMailer{
		APIKey:    apiKey,
		FromEmail: "no-reply@parentalrightsportal.org",
		FromName:  "Parental Rights Portal",
	}
}

// Send renders body as the generic HTML template and delivers it.
// body is plain text; it is escaped by the template.
func (m *SendgridMailer) Send(toEmail, toName, subject, body string) error {
	from := mail.NewEmail(m.FromName, m.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	htmlContent := templates.RenderGenericEmail(subject, body)
	message := mail.NewSingleEmail(from, subject, to, body, htmlContent)

	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", toEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", subject)
	return nil
}

// Noop discards all email. Used when no SendGrid key is configured.
type Noop struct{}

func (Noop) Send(toEmail, toName, subject, body string) error {
	zap.S().Debugw("email delivery disabled, dropping message", "to", toEmail, "subject", subject)
	return nil
}
