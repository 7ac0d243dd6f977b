package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := Wrap(fmt.Errorf("no node"), CodeLocatorNotFound, "input not found")
	wrapped := fmt.Errorf("outline stage: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrLocatorNotFound))
	assert.False(t, stderrors.Is(wrapped, ErrResponseTimeout))
}

func TestAppError_WithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrResponseTimeout.WithDetail("arrival")

	assert.Equal(t, "arrival", e.Detail)
	assert.Empty(t, ErrResponseTimeout.Detail)
	assert.Contains(t, e.Error(), "arrival")
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("ctx: %w", ErrQueuePersistence.WithError(fmt.Errorf("disk full"))))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeQueuePersistence, appErr.Code)

	unknown := AsAppError(fmt.Errorf("plain"))
	assert.Equal(t, CodeUnknown, unknown.Code)
}

func TestIsInteraction(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"locator", ErrLocatorNotFound, true},
		{"timeout", ErrResponseTimeout.WithDetail("streaming"), true},
		{"extraction", fmt.Errorf("wrap: %w", ErrExtractionFailure), true},
		{"auth", ErrAuthenticationRequired, false},
		{"plain", fmt.Errorf("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInteraction(tt.err))
		})
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, ErrResponseTimeout.HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ErrAuthenticationRequired.HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ErrInvalidParam.HTTPStatus)
}
