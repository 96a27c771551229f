package background

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/mail"
	"github.com/user/storeapi-go/tasks"
)

// NewWelcomeEmailHandler returns the handler for tasks.TypeSendWelcomeEmail.
// Users registered without an email address are skipped.
func NewWelcomeEmailHandler(mailer mail.Mailer, log logrus.FieldLogger) HandlerFunc {
	return func(ctx context.Context, task tasks.Task) error {
		var p tasks.WelcomeEmailPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("decode welcome email payload: %w", err)
		}
		if p.Email == "" {
			log.WithField("user_id", p.UserID).Info("no email address, skipping welcome email")
			return nil
		}
		return mailer.Send(ctx, mail.WelcomeMessage(p.Username, p.Email))
	}
}

// Handlers returns the task handlers served by the worker.
func Handlers(mailer mail.Mailer, log logrus.FieldLogger) map[string]HandlerFunc {
	return map[string]HandlerFunc{
		tasks.TypeSendWelcomeEmail: NewWelcomeEmailHandler(mailer, log),
	}
}
