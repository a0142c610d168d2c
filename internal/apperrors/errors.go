package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Duplicate variants for the two user identifiers that must stay unique.
// Both still match errors.Is(err, ErrDuplicate).
var (
	ErrDuplicateUsername = fmt.Errorf("%w: username already in use", ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("%w: email already in use", ErrDuplicate)
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidOrExpiredToken covers refresh and password-reset tokens that are
	// missing, malformed, expired, revoked or already used.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrPasswordReuse is returned when a reset tries to set the current password again.
	ErrPasswordReuse = errors.New("new password must differ from the current one")

	// ErrMissingCode is returned when an OAuth callback arrives without an authorization code.
	ErrMissingCode = errors.New("no authorization code provided")

	// ErrUpstreamProvider wraps failures talking to an external identity provider.
	ErrUpstreamProvider = errors.New("identity provider request failed")
)

// AppError carries an HTTP status alongside a client-safe message.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}
