package domain

import "time"

// TokenPayload is the decoded middle segment of a bearer token.
type TokenPayload struct {
	UserID    int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token is expired at now, with millisecond precision.
func (p TokenPayload) IsExpired(now time.Time) bool {
	return p.ExpiresAt.UnixMilli() <= now.UnixMilli()
}
