// Package apierror holds the closed set of errors rendered by the API.
// Messages are surfaced verbatim to the caller so front-ends can branch on
// them (notably expired-vs-invalid token kinds).
package apierror

import (
	"net/http"

	"github.com/pkg/errors"
)

// An Error is an API failure kind with its HTTP status code.
type Error struct {
	HTTPCode int    `json:"-"`
	Status   bool   `json:"status"`
	Message  string `json:"message"`
}

// Validation failures.
var (
	ErrFullnameRequired     = New(http.StatusBadRequest, "FULLNAME_IS_REQUIRED")
	ErrEmailRequired        = New(http.StatusBadRequest, "EMAIL_IS_REQUIRED")
	ErrPasswordRequired     = New(http.StatusBadRequest, "PASSWORD_IS_REQUIRED")
	ErrPasswordTooShort     = New(http.StatusBadRequest, "PASSWORD_MINIMUM_6_CHARACTERS")
	ErrInvalidEmail         = New(http.StatusBadRequest, "INVALID_EMAIL")
	ErrRefreshTokenRequired = New(http.StatusBadRequest, "REFRESH_TOKEN_IS_REQUIRED")
)

// Conflict and not-found failures.
var (
	ErrEmailAlreadyExist  = New(http.StatusBadRequest, "EMAIL_ALREADY_EXIST")
	ErrUserNotFound       = New(http.StatusNotFound, "USER_NOT_FOUND")
	ErrInvalidPassword    = New(http.StatusBadRequest, "INVALID_PASSWORD")
	ErrUserAccessNotFound = New(http.StatusNotFound, "USER_ACCESS_NOT_FOUND")
)

// Token lifecycle failures. Expiry kinds are 401 so clients can attempt a
// silent refresh; everything else is 400.
var (
	ErrInvalidRefreshToken   = New(http.StatusBadRequest, "INVALID_REFRESH_TOKEN")
	ErrRefreshTokenExpired   = New(http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED")
	ErrInvalidAccessToken    = New(http.StatusUnauthorized, "INVALID_ACCESS_TOKEN")
	ErrAccessTokenExpired    = New(http.StatusUnauthorized, "ACCESS_TOKEN_EXPIRED")
	ErrTokenFromOtherDevices = New(http.StatusBadRequest, "TOKEN_FROM_OTHER_DEVICES")
	ErrSessionNotFound       = New(http.StatusBadRequest, "SESSION_ID_NOT_FOUND")
)

// New returns a new Error with the given code and message.
func New(code int, message string) *Error {
	return &Error{HTTPCode: code, Status: false, Message: message}
}

// StatusCode returns the HTTP status code carried by err.
// Any error outside the closed set defaults to 500.
func StatusCode(err error) int {
	var apierr *Error
	if errors.As(err, &apierr) {
		return apierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.Message
}
