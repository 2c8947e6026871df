package apperrors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

var (
	ErrUnauthenticated = &Exception{
		Message:    "authentication required",
		StatusCode: http.StatusUnauthorized,
	}
	ErrForbidden = &Exception{
		Message:    "access denied",
		StatusCode: http.StatusForbidden,
	}
	ErrValidation = &Exception{
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
	}
	ErrNotFound = &Exception{
		Message:    "not found",
		StatusCode: http.StatusNotFound,
	}
	ErrInvalidTransition = &Exception{
		Message:    "task is no longer pending",
		StatusCode: http.StatusConflict,
	}
	ErrAuthorNotEligible = &Exception{
		Message:    "author is not an eligible field user for this city",
		StatusCode: http.StatusUnprocessableEntity,
	}
	ErrAttachmentUploadFailed = &Exception{
		Message:    "attachment upload failed",
		StatusCode: http.StatusBadGateway,
	}
	ErrUsernameTaken = &Exception{
		Message:    "username already exists",
		StatusCode: http.StatusConflict,
	}
	ErrInvalidCredentials = &Exception{
		Message:    "invalid username or password",
		StatusCode: http.StatusUnauthorized,
	}
)

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// RedirectsToLogin reports whether err must be answered with a redirect to the
// login page instead of an error body.
func RedirectsToLogin(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrForbidden)
}
