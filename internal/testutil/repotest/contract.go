// Package repotest holds the behaviour every repository.UserRepository
// adapter must share. Adapter packages run it against their own backend.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// ContractSuite exercises a UserRepository. New must return an adapter over
// empty storage; it is called before every test.
type ContractSuite struct {
	suite.Suite
	New  func() repository.UserRepository
	repo repository.UserRepository
	ctx  context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.New()
}

// NewUser builds a valid aggregate whose email and phone derive from n.
func NewUser(n int, at time.Time) *entity.User {
	at = at.UTC().Truncate(time.Microsecond)
	return &entity.User{
		PersonalInfo: entity.PersonalInfo{
			FirstName:   "Selma",
			LastName:    "Nangolo",
			Email:       fmt.Sprintf("user%d@example.com", n),
			Phone:       fmt.Sprintf("+2648100%05d", n),
			DateOfBirth: time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
			Nationality: "Namibian",
		},
		ResidentialAddress: entity.Address{Street: "123 Independence Avenue", City: "Windhoek", State: "Khomas", PostalCode: "10001", Country: "Namibia"},
		PostalAddress:      entity.Address{Street: "PO Box 12345", City: "Windhoek", State: "Khomas", PostalCode: "10002", Country: "Namibia"},
		CreatedAt:          at,
		UpdatedAt:          at,
	}
}

func (s *ContractSuite) TestRoundTrip() {
	u := NewUser(1, time.Now())
	s.Require().NoError(s.repo.Create(s.ctx, u))
	s.Require().Positive(u.ID)

	got, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
	s.Equal(u.PersonalInfo, got.PersonalInfo)
	s.Equal(u.ResidentialAddress, got.ResidentialAddress)
	s.Equal(u.PostalAddress, got.PostalAddress)
	s.True(u.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", u.CreatedAt, got.CreatedAt)
	s.True(u.UpdatedAt.Equal(got.UpdatedAt))
}

func (s *ContractSuite) TestOptionalNationality() {
	u := NewUser(1, time.Now())
	u.PersonalInfo.Nationality = ""
	s.Require().NoError(s.repo.Create(s.ctx, u))

	got, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(got.PersonalInfo.Nationality)
}

func (s *ContractSuite) TestGetMissing() {
	_, err := s.repo.GetByID(s.ctx, 424242)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *ContractSuite) TestListNewestFirst() {
	users, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)

	base := time.Now().Add(-time.Hour)
	var ids []int64
	for i := 0; i < 3; i++ {
		u := NewUser(i, base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.repo.Create(s.ctx, u))
		ids = append(ids, u.ID)
	}
	s.Less(ids[0], ids[1])
	s.Less(ids[1], ids[2])

	users, err = s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal([]int64{ids[2], ids[1], ids[0]}, []int64{users[0].ID, users[1].ID, users[2].ID})
}

func (s *ContractSuite) TestUniqueness() {
	at := time.Now()
	first := NewUser(1, at)
	s.Require().NoError(s.repo.Create(s.ctx, first))

	s.Run("email", func() {
		dup := NewUser(2, at)
		dup.PersonalInfo.Email = first.PersonalInfo.Email
		s.ErrorIs(s.repo.Create(s.ctx, dup), repository.ErrDuplicateEmail)
	})

	s.Run("phone", func() {
		dup := NewUser(3, at)
		dup.PersonalInfo.Phone = first.PersonalInfo.Phone
		s.ErrorIs(s.repo.Create(s.ctx, dup), repository.ErrDuplicatePhone)
	})

	s.Run("lookups exclude the owner", func() {
		taken, err := s.repo.EmailTaken(s.ctx, first.PersonalInfo.Email, 0)
		s.Require().NoError(err)
		s.True(taken)
		taken, err = s.repo.EmailTaken(s.ctx, first.PersonalInfo.Email, first.ID)
		s.Require().NoError(err)
		s.False(taken)
		taken, err = s.repo.PhoneTaken(s.ctx, first.PersonalInfo.Phone, first.ID)
		s.Require().NoError(err)
		s.False(taken)
		taken, err = s.repo.PhoneTaken(s.ctx, "+000000000000", 0)
		s.Require().NoError(err)
		s.False(taken)
	})

	s.Run("failed create leaves nothing behind", func() {
		users, err := s.repo.List(s.ctx)
		s.Require().NoError(err)
		s.Len(users, 1)
	})
}

func (s *ContractSuite) TestConcurrentDuplicateEmail() {
	at := time.Now()
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := NewUser(100+i, at)
			u.PersonalInfo.Email = "race@example.com"
			errs[i] = s.repo.Create(context.Background(), u)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, repository.ErrDuplicateEmail)
	}
	s.Equal(1, ok)
}

func (s *ContractSuite) TestUpdate() {
	at := time.Now().Add(-time.Minute)
	a := NewUser(1, at)
	b := NewUser(2, at)
	s.Require().NoError(s.repo.Create(s.ctx, a))
	s.Require().NoError(s.repo.Create(s.ctx, b))

	s.Run("replaces groups and timestamp", func() {
		next := a.Clone()
		next.ResidentialAddress = entity.Address{Street: "45 Sam Nujoma Drive", City: "Swakopmund", State: "Erongo", PostalCode: "13001", Country: "Namibia"}
		next.PersonalInfo.Email = "renamed@example.com"
		next.UpdatedAt = a.UpdatedAt.Add(time.Second)
		s.Require().NoError(s.repo.Update(s.ctx, next))

		got, err := s.repo.GetByID(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal(next.ResidentialAddress, got.ResidentialAddress)
		s.Equal(a.PostalAddress, got.PostalAddress)
		s.Equal("renamed@example.com", got.PersonalInfo.Email)
		s.True(got.UpdatedAt.Equal(next.UpdatedAt))
		s.True(got.CreatedAt.Equal(a.CreatedAt))

		taken, err := s.repo.EmailTaken(s.ctx, a.PersonalInfo.Email, 0)
		s.Require().NoError(err)
		s.False(taken, "previous email is released")
	})

	s.Run("conflicting email", func() {
		next := b.Clone()
		next.PersonalInfo.Email = "renamed@example.com"
		next.UpdatedAt = b.UpdatedAt.Add(time.Second)
		s.ErrorIs(s.repo.Update(s.ctx, next), repository.ErrDuplicateEmail)

		got, err := s.repo.GetByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(b.PersonalInfo.Email, got.PersonalInfo.Email)
	})

	s.Run("conflicting phone", func() {
		next := b.Clone()
		next.PersonalInfo.Phone = a.PersonalInfo.Phone
		next.UpdatedAt = b.UpdatedAt.Add(time.Second)
		s.ErrorIs(s.repo.Update(s.ctx, next), repository.ErrDuplicatePhone)
	})

	s.Run("missing", func() {
		ghost := NewUser(9, at)
		ghost.ID = 424242
		s.ErrorIs(s.repo.Update(s.ctx, ghost), repository.ErrNotFound)
	})
}

func (s *ContractSuite) TestDelete() {
	u := NewUser(1, time.Now())
	s.Require().NoError(s.repo.Create(s.ctx, u))

	s.Require().NoError(s.repo.Delete(s.ctx, u.ID))
	_, err := s.repo.GetByID(s.ctx, u.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, u.ID), repository.ErrNotFound)

	again := NewUser(1, time.Now())
	s.Require().NoError(s.repo.Create(s.ctx, again), "email and phone are free after delete")
	s.Greater(again.ID, u.ID)
}

func (s *ContractSuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}
