// Package notification turns user lifecycle events into emails.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/event"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-registration/pkg/mailer/templates"
)

// ErrPermanent marks failures that retrying will not fix, such as a body
// that does not decode. The worker drops these instead of requeueing.
var ErrPermanent = errors.New("permanent failure")

var sectionNames = map[string]string{
	"personalInfo":       "personal information",
	"residentialAddress": "residential address",
	"postalAddress":      "postal address",
}

type Handler struct {
	Sender      mailer.Sender
	Brand       mailtpl.Brand
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Handle processes one message body. It returns nil for events that need no
// email.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	var evt event.UserEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: decode event: %v", ErrPermanent, err)
	}

	job, ok := JobFor(evt, h.Brand)
	if !ok {
		h.Logger.WithField("event", evt.Type).Debug("no email for event type")
		return nil
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}
	if subject == "" {
		subject = helpers.SubjectFor(job.Template)
	}

	timeout := h.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := h.Sender.Send(c, job.To, subject, text, html); err != nil {
		return err
	}

	h.Logger.WithFields(logrus.Fields{
		"event":    evt.Type,
		"event_id": evt.ID,
		"user_id":  evt.UserID,
		"template": job.Template,
	}).Info("notification sent")
	return nil
}

// JobFor maps an event to the email it triggers.
func JobFor(evt event.UserEvent, brand mailtpl.Brand) (mailer.EmailJob, bool) {
	if evt.Email == "" {
		return mailer.EmailJob{}, false
	}
	name := strings.TrimSpace(evt.FirstName + " " + evt.LastName)
	at := mailtpl.WithTime(evt.OccurredAt)

	job := mailer.EmailJob{To: evt.Email}
	switch evt.Type {
	case event.UserRegistered:
		job.Template = mailtpl.Welcome
		job.Data = mailtpl.NewWelcomeData(brand, name, evt.Email, at)
	case event.UserUpdated:
		changes := make([]string, 0, len(evt.Changed))
		for _, c := range evt.Changed {
			if n, ok := sectionNames[c]; ok {
				changes = append(changes, n)
			}
		}
		job.Template = mailtpl.ProfileUpdated
		job.Data = mailtpl.NewProfileUpdatedData(brand, name, evt.Email, changes, at)
	case event.UserDeleted:
		job.Template = mailtpl.AccountDeleted
		job.Data = mailtpl.NewAccountDeletedData(brand, name, evt.Email, at)
	default:
		return mailer.EmailJob{}, false
	}
	return job, true
}
