package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
)

// appMessage returns the message of the first AppError in the chain. Causes
// stay in the logs.
func appMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func asHTTPError(err error, target **echo.HTTPError) bool {
	return errors.As(err, target)
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return apperrors.ErrCodeInvalidArgument
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrCodeUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.ErrCodeNotFound
	case http.StatusTooManyRequests:
		return apperrors.ErrCodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		return apperrors.ErrCodeServiceUnavailable
	default:
		return apperrors.ErrCodeInternal
	}
}
