package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,15}$`)
)

// Validator wraps struct validation plus the domain field checks shared by
// the import pipelines and handlers.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate runs struct-tag validation (validate:"required,email,phone,...").
// Failed fields are reported by their JSON names so the message can go
// straight into an API response.
func (va *Validator) Validate(obj interface{}) error {
	err := va.v.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid value for: %s", strings.Join(invalid, ", "))
}

// IsValidEmail reports whether the string is a plausible email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone reports whether the string is a plausible phone number
// (optionally +-prefixed, 10-15 digits with separators).
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidDate reports whether the string is a YYYY-MM-DD date.
func IsValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// IsValidPassword enforces the platform password floor.
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// MissingFields returns the names of required fields that are empty.
func MissingFields(data map[string]string, required []string) []string {
	var missing []string
	for _, field := range required {
		if data[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
