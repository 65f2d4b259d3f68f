package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// Digits with an optional leading '+', allowing spaces, dashes, dots and
// parentheses as separators. Length bounds are enforced by min/max tags.
var phonePattern = regexp.MustCompile(`^\+?[0-9()\-. ]+$`)

// FieldError is a single violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Errors is the ordered list of violations for one payload. The order follows
// the struct field order, so the first entry is the first violated rule.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Message
}

// First returns the first violated rule.
func (e Errors) First() FieldError {
	if len(e) == 0 {
		return FieldError{}
	}
	return e[0]
}

// Details returns all violations keyed by field path. When a path fails more
// than one rule the first message is kept.
func (e Errors) Details() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Validator wraps a go-playground validator configured with JSON field names,
// the phone/isodate rules and human readable field labels.
type Validator struct {
	validate *validator.Validate
	labels   map[string]string
}

// New builds a Validator. labels maps JSON field names to the noun used in
// messages, e.g. "firstName" -> "First name".
func New(labels map[string]string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", validPhone)
	_ = v.RegisterValidation("isodate", validISODate)
	v.RegisterAlias("nonzero", "required")

	if labels == nil {
		labels = map[string]string{}
	}
	return &Validator{validate: v, labels: labels}
}

// Struct validates s and returns nil, Errors, or the validator's own error for
// unsupported input (nil pointers, non-structs).
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: v.message(fe),
		})
	}
	return out
}

// Label returns the human readable noun for a JSON field name.
func (v *Validator) Label(field string) string {
	if l, ok := v.labels[field]; ok {
		return l
	}
	return field
}

func (v *Validator) message(fe validator.FieldError) string {
	label := v.Label(fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required", "nonzero":
		return label + " is required"
	case "email":
		return "Please provide a valid email address"
	case "phone":
		return "Please provide a valid phone number"
	case "isodate":
		return label + " must be in ISO format (YYYY-MM-DD)"
	case "min":
		if isNumberKind(fe.Kind()) {
			return label + " must be at least " + param
		}
		return label + " must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return label + " must be at most " + param
		}
		return label + " cannot exceed " + param + " characters"
	case "len":
		return label + " must be exactly " + param + " characters long"
	case "oneof":
		return label + " must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		return label + " is invalid"
	}
}

// ToDetails converts JSON decoding failures into a map suitable for the
// details field of an error response.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ute):
		if ute.Field != "" {
			return map[string]string{ute.Field: "must be a " + ute.Type.String()}
		}
		return map[string]string{"payload": "invalid json"}
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return map[string]string{"payload": "invalid json"}
	}

	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs.Details()
	}
	return map[string]string{"payload": "invalid payload"}
}

func validPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

func validISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// fieldPath drops the top-level struct name from a validator namespace:
// "RegisterUserInput.personalInfo.email" -> "personalInfo.email".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
