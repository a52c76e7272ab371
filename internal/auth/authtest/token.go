// Package authtest mints bearer tokens for tests.
package authtest

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token signs a token carrying the dashboard claims. The key is irrelevant to the gateway,
// which never checks signatures.
func Token(t testing.TB, userID int64, role string, exp time.Time) string {
	t.Helper()
	return Claims(t, jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"iat":    time.Now().Unix(),
		"exp":    exp.Unix(),
	})
}

// Claims signs an arbitrary claim set.
func Claims(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
