package helpers

import (
	"fmt"

	"github.com/oksasatya/go-user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-registration/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a template renders an empty one.
func SubjectFor(template string) string {
	switch template {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.ProfileUpdated:
		return "Your profile was updated"
	case mailtpl.AccountDeleted:
		return "Your registration was removed"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail makes sure templates can always print the
// recipient address.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}
