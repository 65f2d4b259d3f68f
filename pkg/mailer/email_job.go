package mailer

import "context"

// EmailJob is a rendered-or-renderable email. The event worker builds one per
// user event; Template and Data are rendered before sending, while Subject,
// Text and HTML may be set directly.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "profile_updated", "account_deleted"
	Data     map[string]any `json:"data,omitempty"`
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
