package session

import (
	"errors"
	"fmt"

	"github.com/analify/dashboard-gateway/internal/auth"
)

// Errors returned by the session manager.
var (
	ErrInvalidToken      = auth.ErrInvalidToken
	ErrTokenExpired      = auth.ErrTokenExpired
	ErrProfileFetch      = errors.New("failed to load user profile, please try logging in again")
	ErrSessionSuperseded = errors.New("session changed while signing in")
	ErrUnauthorized      = errors.New("session manager not available in this context")
)

// ProfileFetchError reports a failed profile load for an otherwise valid token.
// It matches ErrProfileFetch and unwraps to the transport error.
type ProfileFetchError struct {
	UserID int64
	Err    error
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("%s (user %d): %v", ErrProfileFetch.Error(), e.UserID, e.Err)
}

func (e *ProfileFetchError) Unwrap() error {
	return e.Err
}

func (e *ProfileFetchError) Is(target error) bool {
	return target == ErrProfileFetch
}
