package service

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the API rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a task or profile does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the todo API.
// Detail carries the server's "detail" message when it sent one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.Status)
}

// Is maps 401 and 404 onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ClientError reports whether the server rejected the request itself
// (any 4xx), as opposed to failing to serve it.
func (e *APIError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// AuthError is a failed login. The stored session is left unchanged.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "Login failed."
	}
	return e.Detail
}
