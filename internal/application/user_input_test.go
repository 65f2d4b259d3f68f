package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/pkg/apperror"
)

func validPersonalInfo() *PersonalInfoPayload {
	return &PersonalInfoPayload{
		FirstName:   "Selma",
		LastName:    "Nangolo",
		Email:       "selma.nangolo@example.com",
		Phone:       "+264 81 123 4567",
		DateOfBirth: "1990-05-15",
	}
}

func validAddress() *AddressPayload {
	return &AddressPayload{
		Street:     "123 Independence Avenue",
		City:       "Windhoek",
		State:      "Khomas",
		PostalCode: "10001",
		Country:    "Namibia",
	}
}

func TestRegisterUserInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterUserInput)
		field   string
		message string
	}{
		{
			name:    "missing personal info",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo = nil },
			field:   "personalInfo",
			message: "Personal info is required",
		},
		{
			name:    "missing postal address",
			mutate:  func(in *RegisterUserInput) { in.PostalAddress = nil },
			field:   "postalAddress",
			message: "Postal address is required",
		},
		{
			name:    "short first name",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.FirstName = "S" },
			field:   "personalInfo.firstName",
			message: "First name must be at least 2 characters long",
		},
		{
			name:    "long last name",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.LastName = string(make([]byte, 101)) },
			field:   "personalInfo.lastName",
			message: "Last name cannot exceed 100 characters",
		},
		{
			name:    "phone with letters",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.Phone = "+264-81-CALL-ME" },
			field:   "personalInfo.phone",
			message: "Please provide a valid phone number",
		},
		{
			name:    "date of birth not ISO",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.DateOfBirth = "15/05/1990" },
			field:   "personalInfo.dateOfBirth",
			message: "Date of birth must be in ISO format (YYYY-MM-DD)",
		},
		{
			name:    "impossible calendar date",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.DateOfBirth = "1990-02-30" },
			field:   "personalInfo.dateOfBirth",
			message: "Date of birth must be in ISO format (YYYY-MM-DD)",
		},
		{
			name:    "short nationality",
			mutate:  func(in *RegisterUserInput) { in.PersonalInfo.Nationality = "N" },
			field:   "personalInfo.nationality",
			message: "Nationality must be at least 2 characters long",
		},
		{
			name:    "short postal code",
			mutate:  func(in *RegisterUserInput) { in.ResidentialAddress.PostalCode = "10" },
			field:   "residentialAddress.postalCode",
			message: "Postal code must be at least 3 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := RegisterUserInput{
				PersonalInfo:       validPersonalInfo(),
				ResidentialAddress: validAddress(),
				PostalAddress:      validAddress(),
			}
			tt.mutate(&in)

			err := in.Validate()
			ae, ok := apperror.As(err)
			require.True(t, ok, "expected *apperror.Error, got %v", err)
			assert.Equal(t, apperror.KindValidation, ae.Kind)
			assert.Equal(t, tt.field, ae.Field)
			assert.Equal(t, tt.message, ae.Message)
			assert.Equal(t, tt.message, ae.Details[tt.field])
		})
	}
}

func TestRegisterUserInputValid(t *testing.T) {
	in := RegisterUserInput{
		PersonalInfo:       validPersonalInfo(),
		ResidentialAddress: validAddress(),
		PostalAddress:      validAddress(),
	}
	assert.NoError(t, in.Validate())

	in.PersonalInfo.Nationality = "Namibian"
	in.PersonalInfo.Phone = "(061) 123-4567"
	assert.NoError(t, in.Validate())
}

func TestFirstErrorWinsButDetailsListAll(t *testing.T) {
	in := RegisterUserInput{
		PersonalInfo:       validPersonalInfo(),
		ResidentialAddress: validAddress(),
		PostalAddress:      validAddress(),
	}
	in.PersonalInfo.FirstName = ""
	in.PersonalInfo.Email = "not-an-email"
	in.ResidentialAddress.Street = "abc"

	ae, ok := apperror.As(in.Validate())
	require.True(t, ok)
	assert.Equal(t, "First name is required", ae.Message)
	assert.Equal(t, map[string]string{
		"personalInfo.firstName":    "First name is required",
		"personalInfo.email":        "Please provide a valid email address",
		"residentialAddress.street": "Street address must be at least 5 characters long",
	}, ae.Details)
}

func TestUpdateUserInputValidate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ae, ok := apperror.As(UpdateUserInput{}.Validate())
		require.True(t, ok)
		assert.Equal(t, msgEmptyUpdate, ae.Message)
	})

	t.Run("single group", func(t *testing.T) {
		assert.NoError(t, UpdateUserInput{PostalAddress: validAddress()}.Validate())
	})

	t.Run("supplied group is validated in full", func(t *testing.T) {
		addr := validAddress()
		addr.Country = ""
		ae, ok := apperror.As(UpdateUserInput{ResidentialAddress: addr}.Validate())
		require.True(t, ok)
		assert.Equal(t, "residentialAddress.country", ae.Field)
		assert.Equal(t, "Country is required", ae.Message)
	})
}

func TestPersonalInfoToEntity(t *testing.T) {
	pi, err := validPersonalInfo().toEntity()
	require.NoError(t, err)
	assert.Equal(t, "1990-05-15", pi.DateOfBirth.Format("2006-01-02"))
	assert.Equal(t, "+264 81 123 4567", pi.Phone)
}
