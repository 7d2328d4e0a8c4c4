package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NotFound("patient", nil), http.StatusNotFound},
		{BadRequest("invalid email", nil), http.StatusBadRequest},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Forbidden("plan limit reached", nil), http.StatusForbidden},
		{Conflict("already exists", nil), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode())
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "patient not found", NotFound("patient", nil).Error())

	cause := errors.New("connection refused")
	wrapped := Internal(cause)
	assert.Equal(t, "internal server error: connection refused", wrapped.Error())
	assert.True(t, errors.Is(wrapped, cause))
}
