package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultHTTPCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeAPIRateLimit, http.StatusTooManyRequests},
		{ErrCodeAPITimeout, http.StatusGatewayTimeout},
		{ErrCodeExternalService, http.StatusBadGateway},
		{ErrCodeServiceDown, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "x").GetHTTPCode())
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := stderrors.New("disk full")
	appErr := DatabaseError("insert", cause)

	assert.True(t, stderrors.Is(appErr, cause))
	assert.Contains(t, appErr.Error(), "disk full")
	assert.Equal(t, "insert", appErr.Details["operation"])

	wrapped := fmt.Errorf("saving recipe: %w", appErr)
	found, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDatabaseQuery, found.Code)
	assert.True(t, Is(wrapped, ErrCodeDatabaseQuery))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPCode(wrapped))
}

func TestPlainErrorsDefaultToInternal(t *testing.T) {
	err := stderrors.New("boom")

	assert.Equal(t, ErrCodeInternal, GetCode(err))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPCode(err))
	assert.False(t, Is(err, ErrCodeNotFound))
}

func TestToResponse(t *testing.T) {
	resp := NotFound("recipe", 42).ToResponse()

	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNotFound, resp.Code)
	assert.Equal(t, "recipe not found", resp.Message)
	assert.Equal(t, 42, resp.Details["id"])
}

func TestInternalHidesCause(t *testing.T) {
	appErr := Internal(stderrors.New("secret connection string"))

	assert.Equal(t, "internal server error", appErr.ToResponse().Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.GetHTTPCode())
}
