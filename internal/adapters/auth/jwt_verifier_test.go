package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petex-service/internal/ports"
)

const testSecret = "petex-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestResolveCallerAdminToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-1",
		"role": ports.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.ResolveCaller(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)
	assert.Equal(t, ports.RoleAdmin, identity.Role)
}

func TestResolveCallerWrongSecret(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-1", "role": ports.RoleAdmin})

	_, err := v.ResolveCaller(token)
	assert.Error(t, err)
}

func TestResolveCallerExpiredToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.ResolveCaller(token)
	assert.Error(t, err)
}

func TestResolveCallerMissingSubject(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"role": ports.RoleAdmin})

	_, err := v.ResolveCaller(token)
	assert.Error(t, err)
}

func TestResolveCallerGarbage(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	_, err := v.ResolveCaller("not-a-token")
	assert.Error(t, err)

	_, err = v.ResolveCaller("")
	assert.Error(t, err)
}
