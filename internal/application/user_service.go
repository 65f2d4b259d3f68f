package application

//go:generate mockgen -source=user_service.go -destination=mocks/event_publisher_mock.go -package=mocks EventPublisher

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/event"
	repo "github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/metrics"
	"github.com/oksasatya/go-user-registration/pkg/apperror"
)

const (
	MsgUserNotFound       = "User not found"
	MsgEmailAlreadyExists = "Email already exists"
	MsgPhoneAlreadyExists = "Phone number already exists"
)

var (
	ErrUserNotFound   = apperror.NotFound(MsgUserNotFound)
	ErrEmailConflict  = apperror.Conflict("personalInfo.email", MsgEmailAlreadyExists)
	ErrPhoneConflict  = apperror.Conflict("personalInfo.phone", MsgPhoneAlreadyExists)
	errNilStoredValue = errors.New("repository returned nil user")
)

// EventPublisher delivers user lifecycle events. Delivery is best effort:
// a failed publish is logged and never fails the operation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, evt event.UserEvent) error
}

type Service struct {
	Repo    repo.UserRepository
	Events  EventPublisher
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewService(repo repo.UserRepository, events EventPublisher, m *metrics.Metrics, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Repo:    repo,
		Events:  events,
		Metrics: m,
		Logger:  logger,
		Now:     time.Now,
	}
}

// Register validates in, enforces email then phone uniqueness and stores the
// new aggregate.
func (s *Service) Register(ctx context.Context, in RegisterUserInput) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		s.Metrics.IncValidationFailure("register")
		return nil, err
	}
	if err := s.ensureUnique(ctx, in.PersonalInfo.Email, in.PersonalInfo.Phone, 0); err != nil {
		return nil, err
	}

	pi, err := in.PersonalInfo.toEntity()
	if err != nil {
		return nil, err
	}
	now := s.now()
	u := &entity.User{
		PersonalInfo:       pi,
		ResidentialAddress: in.ResidentialAddress.toEntity(),
		PostalAddress:      in.PostalAddress.toEntity(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, s.storageError(ctx, "create user", err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")
	s.Metrics.IncRegistered()
	s.publish(ctx, event.New(event.UserRegistered, u, now))
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "get user", err)
	}
	if u == nil {
		return nil, s.storageError(ctx, "get user", errNilStoredValue)
	}
	return u, nil
}

// ListUsers returns every user, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, s.storageError(ctx, "list users", err)
	}
	if users == nil {
		users = []*entity.User{}
	}
	return users, nil
}

// UpdateUser replaces the supplied groups of an existing user. Groups left
// out of in keep their stored value; a supplied group is not merged field by
// field.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		s.Metrics.IncValidationFailure("update")
		return nil, err
	}

	current, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	var changed []string
	if in.PersonalInfo != nil {
		if err := s.ensureUnique(ctx, in.PersonalInfo.Email, in.PersonalInfo.Phone, id); err != nil {
			return nil, err
		}
		pi, err := in.PersonalInfo.toEntity()
		if err != nil {
			return nil, err
		}
		next.PersonalInfo = pi
		changed = append(changed, "personalInfo")
	}
	if in.ResidentialAddress != nil {
		next.ResidentialAddress = in.ResidentialAddress.toEntity()
		changed = append(changed, "residentialAddress")
	}
	if in.PostalAddress != nil {
		next.PostalAddress = in.PostalAddress.toEntity()
		changed = append(changed, "postalAddress")
	}
	next.UpdatedAt = s.nextUpdatedAt(current.UpdatedAt)

	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, s.storageError(ctx, "update user", err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": id, "changed": changed}).Info("user updated")
	s.Metrics.IncUpdated()
	s.publish(ctx, event.New(event.UserUpdated, next, next.UpdatedAt, changed...))
	return next, nil
}

// DeleteUser removes the user with its addresses and returns what was removed.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*entity.User, error) {
	current, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return nil, s.storageError(ctx, "delete user", err)
	}

	s.Logger.WithField("user_id", id).Info("user deleted")
	s.Metrics.IncDeleted()
	s.publish(ctx, event.New(event.UserDeleted, current, s.now()))
	return current, nil
}

// Ping reports whether the storage backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

// ensureUnique checks email before phone; the first taken value decides the
// conflict. Empty values are skipped.
func (s *Service) ensureUnique(ctx context.Context, email, phone string, excludeID int64) error {
	if email != "" {
		taken, err := s.Repo.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return s.storageError(ctx, "check email", err)
		}
		if taken {
			s.Metrics.IncConflict("email")
			return ErrEmailConflict
		}
	}
	if phone != "" {
		taken, err := s.Repo.PhoneTaken(ctx, phone, excludeID)
		if err != nil {
			return s.storageError(ctx, "check phone", err)
		}
		if taken {
			s.Metrics.IncConflict("phone")
			return ErrPhoneConflict
		}
	}
	return nil
}

// storageError translates repository errors into application errors. Unique
// violations caught at write time land here too.
func (s *Service) storageError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		s.Metrics.IncConflict("email")
		return ErrEmailConflict
	case errors.Is(err, repo.ErrDuplicatePhone):
		s.Metrics.IncConflict("phone")
		return ErrPhoneConflict
	case errors.Is(err, context.Canceled):
		s.Logger.WithField("op", op).Debug("request canceled")
		return apperror.Internal(op, err)
	}
	s.Logger.WithContext(ctx).WithError(err).WithField("op", op).Error("storage operation failed")
	return apperror.Internal(op, err)
}

func (s *Service) publish(ctx context.Context, evt event.UserEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, evt); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event":   evt.Type,
			"user_id": evt.UserID,
		}).Warn("publish user event failed")
	}
}

func (s *Service) now() time.Time {
	return s.Now().UTC().Truncate(time.Microsecond)
}

// nextUpdatedAt keeps updatedAt strictly increasing even when the clock has
// not advanced past the stored value (microsecond storage precision).
func (s *Service) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.UTC().Add(time.Microsecond)
	}
	return now
}
