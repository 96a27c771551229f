// Package mail sends transactional email. Resend is used when an API key is
// configured; otherwise messages are only logged.
package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/config"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// WelcomeMessage builds the email sent after registration.
func WelcomeMessage(username, email string) Message {
	return Message{
		To:      email,
		Subject: "Successfully signed up",
		Text:    fmt.Sprintf("Hi %s! You have successfully signed up to the Stores REST API.", username),
	}
}

// New picks the Resend mailer when an API key is configured and the log mailer otherwise.
func New(cfg *config.MailConfig, log logrus.FieldLogger) Mailer {
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY not set, emails will only be logged")
		return NewLogMailer(log)
	}
	return NewResendMailer(resend.NewClient(cfg.ResendAPIKey), cfg.From, log)
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
	log    logrus.FieldLogger
}

// NewResendMailer wraps an existing Resend client.
func NewResendMailer(client *resend.Client, from string, log logrus.FieldLogger) *ResendMailer {
	return &ResendMailer{client: client, from: from, log: log}
}

// Send delivers msg and logs the provider message id.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return apperror.NewExternalServiceError("failed to send email", err)
	}
	m.log.WithFields(logrus.Fields{"to": msg.To, "resend_id": sent.Id}).Info("email sent")
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log logrus.FieldLogger
}

func NewLogMailer(log logrus.FieldLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}
