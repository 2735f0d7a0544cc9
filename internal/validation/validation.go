package validation

import (
	"reflect"
	"strings"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field to its first failing rule's message.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

type CustomerInput struct {
	Name  string `json:"name" validate:"min=3"`
	Email string `json:"email" validate:"email"`
	Phone string `json:"phone,omitempty"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"email"`
	Subject string `json:"subject" validate:"min=5"`
	Message string `json:"message" validate:"min=10"`
}

type RegistrationInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// messages is keyed by "<json field>.<tag>".
var messages = map[string]string{
	"name.min":                 "Name must be at least 3 characters",
	"email.email":              "Please enter a valid email address",
	"email.required":           "Email is required",
	"subject.min":              "Subject must be at least 5 characters.",
	"message.min":              "Message must be at least 10 characters.",
	"name.required":            "Name is required",
	"password.min":             "Password must be at least 8 characters long",
	"password.required":        "Password is required",
	"confirm_password.eqfield": "Passwords do not match",
}

var contactMessages = map[string]string{
	"name.min":    "Name must be at least 2 characters.",
	"email.email": "Please enter a valid email address.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCustomer trims the input and returns the customer on success.
func ValidateCustomer(in CustomerInput) (d.CustomerInfo, FieldErrors) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if fe := check(in, nil); !fe.Valid() {
		return d.CustomerInfo{}, fe
	}
	return d.CustomerInfo{Name: in.Name, Email: in.Email, Phone: in.Phone}, nil
}

func ValidateContact(in ContactInput) FieldErrors {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return check(in, contactMessages)
}

func ValidateRegistration(in RegistrationInput) FieldErrors {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return check(in, nil)
}

func ValidateLogin(in LoginInput) FieldErrors {
	in.Email = strings.TrimSpace(in.Email)
	return check(in, nil)
}

func check(v any, overrides map[string]string) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	fe := make(FieldErrors, len(verrs))
	for _, ve := range verrs {
		field := ve.Field()
		if _, seen := fe[field]; seen {
			continue
		}
		key := field + "." + ve.Tag()
		msg, ok := overrides[key]
		if !ok {
			msg, ok = messages[key]
		}
		if !ok {
			msg = ve.Error()
		}
		fe[field] = msg
	}
	return fe
}
