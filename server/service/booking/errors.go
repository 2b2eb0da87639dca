package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/plugin/ai/aitime"
)

// NoMatchError reports that no active appointment is within the match window
// of the described date/time.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no active booking within %d minutes of %q; supply the booking UID instead", MatchWindowMinutes, e.Query)
}

// ExternalServiceError is a non-2xx answer from the scheduling service.
type ExternalServiceError struct {
	Status int
	Detail string
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("scheduling service returned %d: %s", e.Status, e.Detail)
}

// ValidationError reports missing or inconsistent caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var errMissingEmail = &ValidationError{
	Field:   "email",
	Message: "No email address provided. Please set your email in settings or provide it when asking about appointments.",
}

// Classify maps an error from any booking step to its error code.
func Classify(err error) apperrors.ErrorCode {
	if err == nil {
		return apperrors.ErrCodeOK
	}

	var (
		parseErr      *aitime.ParseError
		noMatchErr    *NoMatchError
		validationErr *ValidationError
		externalErr   *ExternalServiceError
	)
	switch {
	case errors.As(err, &parseErr):
		return apperrors.ErrCodeParse
	case errors.As(err, &noMatchErr):
		return apperrors.ErrCodeNoMatch
	case errors.As(err, &validationErr):
		return apperrors.ErrCodeValidation
	case errors.As(err, &externalErr):
		switch externalErr.Status {
		case http.StatusNotFound:
			return apperrors.ErrCodeNotFound
		case http.StatusBadRequest:
			return apperrors.ErrCodeBadRequest
		default:
			return apperrors.ErrCodeExternal
		}
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrCodeTimeout
	default:
		return apperrors.ErrCodeExternal
	}
}
