package entity

import (
	"time"
)

// Address is a value object owned by a User. It has no identity of its own
// and is always replaced as a whole.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// PersonalInfo is a value object holding the registrant's identity fields.
// Email and Phone are unique across all users.
type PersonalInfo struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	Nationality string
}

// User is the aggregate root for the registration domain. It always carries
// exactly one residential and one postal address.
type User struct {
	ID                 int64
	PersonalInfo       PersonalInfo
	ResidentialAddress Address
	PostalAddress      Address
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone returns a copy that shares nothing with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
