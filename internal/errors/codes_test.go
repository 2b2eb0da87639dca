package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := ToolNotFound("book_flight")
		assert.Equal(t, "[TOOL_NOT_FOUND] tool not found: book_flight", err.Error())
	})

	t.Run("message with cause and unwrap", func(t *testing.T) {
		cause := fmt.Errorf("dial tcp: refused")
		err := Wrap(cause, ErrCodeServiceUnavailable, "memory backend down")
		assert.Contains(t, err.Error(), "dial tcp: refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("context", func(t *testing.T) {
		err := InvalidArgument("bad input").WithContext("field", "email")
		assert.Equal(t, "email", err.Context["field"])
	})
}

func TestGetCodeFromError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", SessionNotFound("abc"))

	assert.Equal(t, ErrCodeSessionNotFound, GetCodeFromError(wrapped, ErrCodeInternal))
	assert.True(t, IsCode(wrapped, ErrCodeSessionNotFound))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(fmt.Errorf("plain"), ErrCodeInternal))
	assert.False(t, IsCode(nil, ErrCodeOK))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeOK, http.StatusOK},
		{ErrCodeParse, http.StatusBadRequest},
		{ErrCodeNoMatch, http.StatusNotFound},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeExternal, http.StatusBadGateway},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}
