package auth

import (
	"encoding/base64"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analify/dashboard-gateway/internal/auth/authtest"
	"github.com/analify/dashboard-gateway/internal/domain"
)

func rawToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecodeToken_Valid(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := authtest.Token(t, 1001, "CAISSIER", exp)

	payload, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), payload.UserID)
	assert.Equal(t, domain.RoleCashier, payload.Role)
	assert.True(t, payload.ExpiresAt.Equal(exp))
	assert.False(t, payload.IssuedAt.IsZero())
}

func TestDecodeToken_CanonicalizesSynonym(t *testing.T) {
	token := authtest.Token(t, 1, "ADMIN_G", time.Now().Add(time.Hour))

	payload, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGeneralAdmin, payload.Role)
}

func TestDecodeToken_IgnoresSignature(t *testing.T) {
	// Unsigned demo-style token with a bogus signature segment.
	token := rawToken(`{"userId":1644,"role":"INVESTOR","exp":1900000000}`)

	payload, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1644), payload.UserID)
	assert.Equal(t, domain.RoleInvestor, payload.Role)
}

func TestDecodeToken_AcceptsPaddedSegment(t *testing.T) {
	seg := base64.URLEncoding.EncodeToString([]byte(`{"userId":7,"role":"ADMIN_STORE","exp":1900000000}`))
	payload, err := DecodeToken("h." + seg + ".s")
	require.NoError(t, err)
	assert.Equal(t, int64(7), payload.UserID)
}

func TestDecodeToken_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"one segment":      "abc",
		"two segments":     "abc.def",
		"four segments":    "a.b.c.d",
		"bad base64":       "a.!!!.c",
		"not json":         rawToken("not json"),
		"json array":       rawToken(`[1,2,3]`),
		"missing userId":   rawToken(`{"role":"CAISSIER","exp":1900000000}`),
		"missing role":     rawToken(`{"userId":1,"exp":1900000000}`),
		"empty role":       rawToken(`{"userId":1,"role":"","exp":1900000000}`),
		"missing exp":      rawToken(`{"userId":1,"role":"CAISSIER"}`),
		"string userId":    rawToken(`{"userId":"1","role":"CAISSIER","exp":1900000000}`),
		"fractional id":    rawToken(`{"userId":1.5,"role":"CAISSIER","exp":1900000000}`),
		"non numeric exp":  rawToken(`{"userId":1,"role":"CAISSIER","exp":"soon"}`),
		"non string role":  rawToken(`{"userId":1,"role":42,"exp":1900000000}`),
		"trailing garbage": rawToken(`{"userId":1001,"role":"ADMIN_G","exp":4102444800}not-json`),
		"two objects":      rawToken(`{"userId":1,"role":"CAISSIER","exp":1900000000}{}`),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCheckToken_Expiry(t *testing.T) {
	now := time.Unix(1_800_000_000, 0)

	_, err := CheckToken(authtest.Token(t, 1, "CAISSIER", now.Add(-time.Second)), now)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// exp*1000 == now counts as expired.
	_, err = CheckToken(authtest.Token(t, 1, "CAISSIER", now), now)
	assert.ErrorIs(t, err, ErrTokenExpired)

	payload, err := CheckToken(authtest.Token(t, 1, "CAISSIER", now.Add(time.Second)), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), payload.UserID)
}

func TestCheckToken_MalformedBeatsExpiry(t *testing.T) {
	_, err := CheckToken(authtest.Claims(t, jwt.MapClaims{"role": "CAISSIER", "exp": 1}), time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}
