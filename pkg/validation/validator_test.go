package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string `json:"name" validate:"required,min=2,max=10"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10,max=20,phone"`
	Born  string `json:"born" validate:"required,isodate"`
}

type envelope struct {
	Contact *contact `json:"contact" validate:"required"`
	Backup  *contact `json:"backup" validate:"omitempty"`
}

func newTestValidator() *Validator {
	return New(map[string]string{"name": "Name", "phone": "Phone number", "born": "Date of birth"})
}

func validContact() *contact {
	return &contact{Name: "Selma", Email: "selma@example.com", Phone: "+264812345678", Born: "2001-05-14"}
}

func TestStructValid(t *testing.T) {
	v := newTestValidator()
	require.NoError(t, v.Struct(envelope{Contact: validContact()}))
}

func TestStructFirstErrorWins(t *testing.T) {
	v := newTestValidator()
	c := validContact()
	c.Name = ""
	c.Email = "not-an-email"

	err := v.Struct(envelope{Contact: c})
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)

	assert.Equal(t, "Name is required", err.Error())
	assert.Equal(t, FieldError{Field: "contact.name", Tag: "required", Message: "Name is required"}, verrs.First())
	assert.Equal(t, map[string]string{
		"contact.name":  "Name is required",
		"contact.email": "Please provide a valid email address",
	}, verrs.Details())
}

func TestStructMessages(t *testing.T) {
	v := newTestValidator()
	cases := []struct {
		name   string
		mutate func(c *contact)
		want   string
	}{
		{"short name", func(c *contact) { c.Name = "S" }, "Name must be at least 2 characters long"},
		{"long name", func(c *contact) { c.Name = "Selma-Ndapewa" }, "Name cannot exceed 10 characters"},
		{"bad email", func(c *contact) { c.Email = "not-an-email" }, "Please provide a valid email address"},
		{"short phone", func(c *contact) { c.Phone = "+26481" }, "Phone number must be at least 10 characters long"},
		{"letters in phone", func(c *contact) { c.Phone = "+26481abc45678" }, "Please provide a valid phone number"},
		{"plus in the middle", func(c *contact) { c.Phone = "264+812345678" }, "Please provide a valid phone number"},
		{"not a date", func(c *contact) { c.Born = "14/05/2001" }, "Date of birth must be in ISO format (YYYY-MM-DD)"},
		{"impossible date", func(c *contact) { c.Born = "2001-02-30" }, "Date of birth must be in ISO format (YYYY-MM-DD)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validContact()
			tc.mutate(c)
			err := v.Struct(envelope{Contact: c})
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestPhoneFormats(t *testing.T) {
	v := newTestValidator()
	for _, phone := range []string{"+264812345678", "(061) 234-5678", "061.234.5678", "0612345678"} {
		c := validContact()
		c.Phone = phone
		assert.NoError(t, v.Struct(envelope{Contact: c}), phone)
	}
}

func TestNestedPointerGroups(t *testing.T) {
	v := newTestValidator()

	err := v.Struct(envelope{})
	require.Error(t, err)
	assert.Equal(t, "contact is required", err.Error())

	backup := validContact()
	backup.Born = ""
	err = v.Struct(envelope{Contact: validContact(), Backup: backup})
	require.Error(t, err)
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "backup.born", verrs.First().Field)
}

func TestToDetails(t *testing.T) {
	var target envelope
	syntaxErr := json.Unmarshal([]byte(`{"contact":`), &target)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(syntaxErr))

	typeErr := json.Unmarshal([]byte(`{"contact":{"name":5}}`), &target)
	details := ToDetails(typeErr)
	require.Len(t, details, 1)
	assert.Contains(t, details["contact.name"], "string")

	assert.Nil(t, ToDetails(nil))
}
