package repository

//go:generate mockgen -source=user_repository.go -destination=mocks/user_repository_mock.go -package=mocks UserRepository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicatePhone = errors.New("phone number already exists")
)

// UserRepository defines the storage contract for User aggregates.
//
// Implementations must enforce email and phone uniqueness themselves and
// report violations detected at write time as ErrDuplicateEmail or
// ErrDuplicatePhone, whatever the pre-checks said.
type UserRepository interface {
	// Create persists u with both addresses atomically and sets u.ID.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]*entity.User, error)
	// Update overwrites the stored aggregate with u.
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user and its addresses.
	Delete(ctx context.Context, id int64) error
	// EmailTaken reports whether a user other than excludeID owns email.
	// excludeID 0 excludes nobody.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)
	Ping(ctx context.Context) error
}
