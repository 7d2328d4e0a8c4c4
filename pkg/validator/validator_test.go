package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("priya@citycare.test"))
	assert.True(t, IsValidEmail("dr.rao+appointments@hospital.co.in"))
	assert.False(t, IsValidEmail("priya@"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("9876543210"))
	assert.True(t, IsValidPhone("+91 98765 43210"))
	assert.True(t, IsValidPhone("(022) 1234-5678"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("abcdefghij"))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("1990-01-01"))
	assert.False(t, IsValidDate("01/01/1990"))
	assert.False(t, IsValidDate("1990-13-01"))
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(map[string]string{
		"first_name": "Priya",
		"last_name":  "",
		"phone":      "",
	}, []string{"first_name", "last_name", "phone"})
	assert.Equal(t, []string{"last_name", "phone"}, missing)

	assert.Nil(t, MissingFields(map[string]string{"name": "x"}, []string{"name"}))
}

func TestStructValidation(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Phone string `validate:"required,phone"`
	}

	v := New()
	assert.NoError(t, v.Validate(form{Email: "priya@citycare.test", Phone: "9876543210"}))
	assert.Error(t, v.Validate(form{Email: "nope", Phone: "9876543210"}))
	assert.Error(t, v.Validate(form{Email: "priya@citycare.test", Phone: "123"}))
}
