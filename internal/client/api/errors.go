package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers network failures and server-side outages.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned when a request is rejected with 401 even
	// after the refresh-and-replay cycle.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is returned when the refresh token itself was
	// rejected. The session has been cleared; the caller must re-login.
	ErrSessionExpired = errors.New("session expired")
)

// ServerError is an application-level failure: a response body carrying an
// error field, regardless of HTTP status.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}
