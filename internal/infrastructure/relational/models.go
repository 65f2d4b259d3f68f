package relational

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64     `bun:"id,pk,autoincrement"`
	FirstName   string    `bun:"first_name,notnull"`
	LastName    string    `bun:"last_name,notnull"`
	Email       string    `bun:"email,notnull"`
	PhoneNumber string    `bun:"phone_number,notnull"`
	DateOfBirth time.Time `bun:"date_of_birth,type:date,notnull"`
	Nationality string    `bun:"nationality,nullzero"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`

	ResidentialAddress *residentialAddressRow `bun:"rel:has-one,join:id=user_id"`
	PostalAddress      *postalAddressRow      `bun:"rel:has-one,join:id=user_id"`
}

// addressColumns is embedded by both address tables; they differ only in
// name.
type addressColumns struct {
	ID         int64  `bun:"id,pk,autoincrement"`
	UserID     int64  `bun:"user_id,notnull"`
	Street     string `bun:"street,notnull"`
	City       string `bun:"city,notnull"`
	State      string `bun:"state,notnull"`
	PostalCode string `bun:"postal_code,notnull"`
	Country    string `bun:"country,notnull"`
}

type residentialAddressRow struct {
	bun.BaseModel `bun:"table:residential_addresses,alias:ra"`
	addressColumns
}

type postalAddressRow struct {
	bun.BaseModel `bun:"table:postal_addresses,alias:pa"`
	addressColumns
}

var addressUpdateColumns = []string{"street", "city", "state", "postal_code", "country"}

func newUserRow(u *entity.User) *userRow {
	return &userRow{
		ID:          u.ID,
		FirstName:   u.PersonalInfo.FirstName,
		LastName:    u.PersonalInfo.LastName,
		Email:       u.PersonalInfo.Email,
		PhoneNumber: u.PersonalInfo.Phone,
		DateOfBirth: u.PersonalInfo.DateOfBirth,
		Nationality: u.PersonalInfo.Nationality,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func newAddressColumns(userID int64, a entity.Address) addressColumns {
	return addressColumns{
		UserID:     userID,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (a addressColumns) toEntity() entity.Address {
	return entity.Address{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// toEntity requires both address relations to be loaded.
func (r *userRow) toEntity() *entity.User {
	dob := r.DateOfBirth
	u := &entity.User{
		ID: r.ID,
		PersonalInfo: entity.PersonalInfo{
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Email:       r.Email,
			Phone:       r.PhoneNumber,
			DateOfBirth: time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC),
			Nationality: r.Nationality,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.ResidentialAddress != nil {
		u.ResidentialAddress = r.ResidentialAddress.toEntity()
	}
	if r.PostalAddress != nil {
		u.PostalAddress = r.PostalAddress.toEntity()
	}
	return u
}
