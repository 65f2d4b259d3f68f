package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

type Type string

const (
	UserRegistered Type = "user.registered"
	UserUpdated    Type = "user.updated"
	UserDeleted    Type = "user.deleted"
)

// UserEvent is published after a successful mutation of a User.
type UserEvent struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Changed    []string  `json:"changed,omitempty"` // top-level groups replaced by an update
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, u *entity.User, at time.Time, changed ...string) UserEvent {
	return UserEvent{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     u.ID,
		Email:      u.PersonalInfo.Email,
		FirstName:  u.PersonalInfo.FirstName,
		LastName:   u.PersonalInfo.LastName,
		Changed:    changed,
		OccurredAt: at.UTC(),
	}
}
