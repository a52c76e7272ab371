package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/analify/dashboard-gateway/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// payloadClaims is the strict shape of the token's middle segment.
type payloadClaims struct {
	UserID *int64  `json:"userId"`
	Role   *string `json:"role"`
	jwt.RegisteredClaims
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeToken reads the payload segment of a bearer token. The signature is never checked:
// the backend verifies it on every call, so the payload only drives local UI decisions.
// The returned role is already canonical.
func DecodeToken(raw string) (*domain.TokenPayload, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidToken, len(parts))
	}

	segment, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", ErrInvalidToken, err)
	}

	var claims payloadClaims
	if err := json.Unmarshal(segment, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload json: %v", ErrInvalidToken, err)
	}

	switch {
	case claims.UserID == nil:
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	case claims.Role == nil || *claims.Role == "":
		return nil, fmt.Errorf("%w: missing role", ErrInvalidToken)
	case claims.ExpiresAt == nil:
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	payload := &domain.TokenPayload{
		UserID:    *claims.UserID,
		Role:      Canonicalize(domain.Role(*claims.Role)),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	return payload, nil
}

// CheckToken decodes raw and rejects it when expired at now.
func CheckToken(raw string, now time.Time) (*domain.TokenPayload, error) {
	payload, err := DecodeToken(raw)
	if err != nil {
		return nil, err
	}
	if payload.IsExpired(now) {
		return nil, fmt.Errorf("%w: expired at %s", ErrTokenExpired, payload.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return payload, nil
}
