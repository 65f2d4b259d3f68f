package application

import (
	"errors"
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/pkg/apperror"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

// AddressPayload is the wire form of entity.Address.
type AddressPayload struct {
	Street     string `json:"street" validate:"required,min=5,max=255"`
	City       string `json:"city" validate:"required,min=2,max=100"`
	State      string `json:"state" validate:"required,min=2,max=100"`
	PostalCode string `json:"postalCode" validate:"required,min=3,max=20"`
	Country    string `json:"country" validate:"required,min=2,max=100"`
}

// PersonalInfoPayload is the wire form of entity.PersonalInfo.
type PersonalInfoPayload struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=100"`
	LastName    string `json:"lastName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"required,min=10,max=20,phone"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,isodate"`
	Nationality string `json:"nationality,omitempty" validate:"omitempty,min=2,max=50"`
}

// RegisterUserInput is the create-mode payload: every group is required.
type RegisterUserInput struct {
	PersonalInfo       *PersonalInfoPayload `json:"personalInfo" validate:"required"`
	ResidentialAddress *AddressPayload      `json:"residentialAddress" validate:"required"`
	PostalAddress      *AddressPayload      `json:"postalAddress" validate:"required"`
}

// UpdateUserInput is the update-mode payload. Each group is optional, but a
// supplied group is validated in full and replaces the stored one wholesale.
type UpdateUserInput struct {
	PersonalInfo       *PersonalInfoPayload `json:"personalInfo,omitempty" validate:"omitempty"`
	ResidentialAddress *AddressPayload      `json:"residentialAddress,omitempty" validate:"omitempty"`
	PostalAddress      *AddressPayload      `json:"postalAddress,omitempty" validate:"omitempty"`
}

const msgEmptyUpdate = "At least one of personalInfo, residentialAddress or postalAddress must be provided"

var schema = validation.New(map[string]string{
	"personalInfo":       "Personal info",
	"residentialAddress": "Residential address",
	"postalAddress":      "Postal address",
	"firstName":          "First name",
	"lastName":           "Last name",
	"email":              "Email",
	"phone":              "Phone number",
	"dateOfBirth":        "Date of birth",
	"nationality":        "Nationality",
	"street":             "Street address",
	"city":               "City",
	"state":              "State",
	"postalCode":         "Postal code",
	"country":            "Country",
})

// Validate checks the payload in create mode.
func (in RegisterUserInput) Validate() error {
	return validateStruct(in)
}

// Validate checks the payload in update mode.
func (in UpdateUserInput) Validate() error {
	if in.IsEmpty() {
		return apperror.Validation("", msgEmptyUpdate, nil)
	}
	return validateStruct(in)
}

func (in UpdateUserInput) IsEmpty() bool {
	return in.PersonalInfo == nil && in.ResidentialAddress == nil && in.PostalAddress == nil
}

// validateStruct turns the full violation list into a validation error whose
// message is the first violated rule.
func validateStruct(v any) error {
	err := schema.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		first := verrs.First()
		return apperror.Validation(first.Field, first.Message, verrs.Details())
	}
	return apperror.Internal("validate payload", err)
}

func (p AddressPayload) toEntity() entity.Address {
	return entity.Address{
		Street:     p.Street,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

func (p PersonalInfoPayload) toEntity() (entity.PersonalInfo, error) {
	dob, err := time.Parse(validation.DateLayout, p.DateOfBirth)
	if err != nil {
		return entity.PersonalInfo{}, apperror.Validation("personalInfo.dateOfBirth", "Date of birth must be in ISO format (YYYY-MM-DD)", nil)
	}
	return entity.PersonalInfo{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: dob,
		Nationality: p.Nationality,
	}, nil
}
