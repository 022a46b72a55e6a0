package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoplay/internal/errors"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("user", 7), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("username", "cannot be empty"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"bad request", errors.NewBadRequestError("bad"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{"conflict", errors.NewConflictError("taken", nil), errors.ErrCodeConflict, http.StatusConflict},
		{"unauthorized", errors.NewUnauthorizedError("nope"), errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"too large", errors.NewTooLargeError(10), errors.ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{"internal", errors.NewInternalError(fmt.Errorf("disk")), errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Contains(t, tt.err.Error(), tt.code)
		})
	}
}

func TestAsAndUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	wrapped := fmt.Errorf("service: %w", errors.NewConflictError("busy", cause))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)

	_, ok = errors.As(cause)
	assert.False(t, ok)
}
