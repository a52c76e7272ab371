package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the backend rejected the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the token is valid but lacks access to the resource.
	ErrForbidden = errors.New("forbidden: you do not have access to this resource")
)

// APIError is any other non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return e.Message
}
