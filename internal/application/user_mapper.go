package application

import (
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

// UserResponse is the wire form of a stored User.
type UserResponse struct {
	ID                 int64               `json:"id"`
	PersonalInfo       PersonalInfoPayload `json:"personalInfo"`
	ResidentialAddress AddressPayload      `json:"residentialAddress"`
	PostalAddress      AddressPayload      `json:"postalAddress"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID: u.ID,
		PersonalInfo: PersonalInfoPayload{
			FirstName:   u.PersonalInfo.FirstName,
			LastName:    u.PersonalInfo.LastName,
			Email:       u.PersonalInfo.Email,
			Phone:       u.PersonalInfo.Phone,
			DateOfBirth: u.PersonalInfo.DateOfBirth.Format(validation.DateLayout),
			Nationality: u.PersonalInfo.Nationality,
		},
		ResidentialAddress: addressPayload(u.ResidentialAddress),
		PostalAddress:      addressPayload(u.PostalAddress),
		CreatedAt:          u.CreatedAt.UTC(),
		UpdatedAt:          u.UpdatedAt.UTC(),
	}
}

func ToUserResponses(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func addressPayload(a entity.Address) AddressPayload {
	return AddressPayload{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
