// Package document holds the JSON shapes used by the storage adapters that
// keep a user as documents (Postgres JSONB columns, Redis values). Keys are
// camelCase so stored documents read like the API payloads.
package document

import (
	"fmt"
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

const DateLayout = "2006-01-02"

type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// User is a whole aggregate minus its id, which the adapters keep outside
// the document.
type User struct {
	PersonalInfo       PersonalInfo `json:"personalInfo"`
	ResidentialAddress Address      `json:"residentialAddress"`
	PostalAddress      Address      `json:"postalAddress"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func FromPersonalInfo(p entity.PersonalInfo) PersonalInfo {
	return PersonalInfo{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth.Format(DateLayout),
		Nationality: p.Nationality,
	}
}

func (d PersonalInfo) Entity() (entity.PersonalInfo, error) {
	dob, err := time.Parse(DateLayout, d.DateOfBirth)
	if err != nil {
		return entity.PersonalInfo{}, fmt.Errorf("decode dateOfBirth %q: %w", d.DateOfBirth, err)
	}
	return entity.PersonalInfo{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Phone:       d.Phone,
		DateOfBirth: dob,
		Nationality: d.Nationality,
	}, nil
}

func FromAddress(a entity.Address) Address {
	return Address(a)
}

func (d Address) Entity() entity.Address {
	return entity.Address(d)
}

func FromUser(u *entity.User) User {
	return User{
		PersonalInfo:       FromPersonalInfo(u.PersonalInfo),
		ResidentialAddress: FromAddress(u.ResidentialAddress),
		PostalAddress:      FromAddress(u.PostalAddress),
		CreatedAt:          u.CreatedAt.UTC(),
		UpdatedAt:          u.UpdatedAt.UTC(),
	}
}

// Entity rebuilds the aggregate with the given id.
func (d User) Entity(id int64) (*entity.User, error) {
	pi, err := d.PersonalInfo.Entity()
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &entity.User{
		ID:                 id,
		PersonalInfo:       pi,
		ResidentialAddress: d.ResidentialAddress.Entity(),
		PostalAddress:      d.PostalAddress.Entity(),
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}, nil
}
