package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/testutil/repotest"
)

type UserRepositorySuite struct {
	suite.Suite
	repo *UserRepository
	ctx  context.Context
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) SetupTest() {
	s.repo = NewUserRepository()
	s.ctx = context.Background()
}

func newUser(n int, at time.Time) *entity.User {
	return &entity.User{
		PersonalInfo: entity.PersonalInfo{
			FirstName:   "First",
			LastName:    "Last",
			Email:       fmt.Sprintf("user%d@example.com", n),
			Phone:       fmt.Sprintf("+2648100000%02d", n),
			DateOfBirth: time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
		},
		ResidentialAddress: entity.Address{Street: "1 Main Street", City: "Windhoek", State: "Khomas", PostalCode: "10001", Country: "Namibia"},
		PostalAddress:      entity.Address{Street: "PO Box 100", City: "Windhoek", State: "Khomas", PostalCode: "10002", Country: "Namibia"},
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

func (s *UserRepositorySuite) TestCreate() {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	s.Run("assigns ascending ids", func() {
		a := newUser(1, at)
		b := newUser(2, at)
		s.Require().NoError(s.repo.Create(s.ctx, a))
		s.Require().NoError(s.repo.Create(s.ctx, b))
		s.Greater(b.ID, a.ID)
	})

	s.Run("rejects duplicate email before phone", func() {
		dup := newUser(1, at)
		err := s.repo.Create(s.ctx, dup)
		s.ErrorIs(err, repository.ErrDuplicateEmail)
	})

	s.Run("rejects duplicate phone", func() {
		dup := newUser(3, at)
		dup.PersonalInfo.Phone = newUser(2, at).PersonalInfo.Phone
		err := s.repo.Create(s.ctx, dup)
		s.ErrorIs(err, repository.ErrDuplicatePhone)
	})

	s.Run("stored copy is detached from the caller", func() {
		u := newUser(4, at)
		s.Require().NoError(s.repo.Create(s.ctx, u))
		u.PersonalInfo.FirstName = "Changed"

		got, err := s.repo.GetByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal("First", got.PersonalInfo.FirstName)
	})
}

func (s *UserRepositorySuite) TestListNewestFirst() {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	older := newUser(1, base)
	newer := newUser(2, base.Add(time.Minute))
	tieA := newUser(3, base)
	s.Require().NoError(s.repo.Create(s.ctx, older))
	s.Require().NoError(s.repo.Create(s.ctx, newer))
	s.Require().NoError(s.repo.Create(s.ctx, tieA))

	users, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal(newer.ID, users[0].ID)
	s.Equal(tieA.ID, users[1].ID, "same createdAt is ordered by id descending")
	s.Equal(older.ID, users[2].ID)
}

func (s *UserRepositorySuite) TestUpdate() {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	a := newUser(1, at)
	b := newUser(2, at)
	s.Require().NoError(s.repo.Create(s.ctx, a))
	s.Require().NoError(s.repo.Create(s.ctx, b))

	s.Run("missing user", func() {
		ghost := newUser(9, at)
		ghost.ID = 999
		s.ErrorIs(s.repo.Update(s.ctx, ghost), repository.ErrNotFound)
	})

	s.Run("email owned by another user", func() {
		next := a.Clone()
		next.PersonalInfo.Email = b.PersonalInfo.Email
		s.ErrorIs(s.repo.Update(s.ctx, next), repository.ErrDuplicateEmail)
	})

	s.Run("releases the previous email and phone", func() {
		next := a.Clone()
		next.PersonalInfo.Email = "renamed@example.com"
		next.PersonalInfo.Phone = "+264810009999"
		s.Require().NoError(s.repo.Update(s.ctx, next))

		taken, err := s.repo.EmailTaken(s.ctx, "user1@example.com", 0)
		s.Require().NoError(err)
		s.False(taken)
		taken, err = s.repo.PhoneTaken(s.ctx, "+264810009999", 0)
		s.Require().NoError(err)
		s.True(taken)
	})

	s.Run("keeping own email is not a conflict", func() {
		next, err := s.repo.GetByID(s.ctx, b.ID)
		s.Require().NoError(err)
		next.ResidentialAddress.City = "Swakopmund"
		s.NoError(s.repo.Update(s.ctx, next))
	})
}

func (s *UserRepositorySuite) TestDelete() {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	u := newUser(1, at)
	s.Require().NoError(s.repo.Create(s.ctx, u))

	s.Require().NoError(s.repo.Delete(s.ctx, u.ID))
	_, err := s.repo.GetByID(s.ctx, u.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, u.ID), repository.ErrNotFound)

	taken, err := s.repo.EmailTaken(s.ctx, u.PersonalInfo.Email, 0)
	s.Require().NoError(err)
	s.False(taken, "email is free again after delete")
}

func (s *UserRepositorySuite) TestTakenExcludesOwner() {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	u := newUser(1, at)
	s.Require().NoError(s.repo.Create(s.ctx, u))

	taken, err := s.repo.EmailTaken(s.ctx, u.PersonalInfo.Email, u.ID)
	s.Require().NoError(err)
	s.False(taken)
	taken, err = s.repo.EmailTaken(s.ctx, u.PersonalInfo.Email, u.ID+1)
	s.Require().NoError(err)
	s.True(taken)
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUserRepository()
	at := time.Now().UTC()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := newUser(i, at)
			u.PersonalInfo.Email = "same@example.com"
			errs <- repo.Create(context.Background(), u)
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, repository.ErrDuplicateEmail)
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
}

func TestUserRepositoryContract(t *testing.T) {
	suite.Run(t, &repotest.ContractSuite{
		New: func() repository.UserRepository { return NewUserRepository() },
	})
}
