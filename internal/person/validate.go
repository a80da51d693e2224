package person

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one rejected field of a Person or Input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every rejected field.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// ValidateInput checks the creation shape: name is required and age, when
// present, is non-negative.
func ValidateInput(in Input) error {
	return check(validate.Struct(in))
}

// ValidatePerson checks a full document before it is written back.
func ValidatePerson(p *Person) error {
	if p == nil {
		return FieldErrors{{Field: "person", Message: "is required"}}
	}
	return check(validate.Struct(p))
}

// ValidateAge checks an age value used by partial updates.
func ValidateAge(age int) error {
	return check(validate.Var(age, "gte=0"), "age")
}

// ValidateLimit checks a query limit. Zero means unlimited.
func ValidateLimit(limit int64) error {
	return check(validate.Var(limit, "gte=0"), "limit")
}

func check(err error, field ...string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonName(fe.Field())
		if len(field) > 0 {
			name = field[0]
		}
		out = append(out, FieldError{Field: name, Message: message(fe)})
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
