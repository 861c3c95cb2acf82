package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("load quote: %w", NewNotFoundError("Quote"))

	appErr := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Quote not found", appErr.Message)
	assert.True(t, IsAppError(wrapped))
}

func TestGetAppErrorHidesPlainErrors(t *testing.T) {
	cause := errors.New("pq: connection refused")

	appErr := GetAppError(cause)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestInternalErrorMessage(t *testing.T) {
	err := NewInternalError("Failed to render PDF", errors.New("font missing"))
	assert.Equal(t, "Failed to render PDF: font missing", err.Error())
}
