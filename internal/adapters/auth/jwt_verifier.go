package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"petex-service/internal/ports"
)

// JWTVerifier implements the Authenticator port for HMAC-signed bearer
// tokens carrying `sub` and `role` claims.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) ResolveCaller(token string) (ports.Identity, error) {
	if token == "" {
		return ports.Identity{}, errors.New("resolve caller: empty token")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return ports.Identity{}, fmt.Errorf("resolve caller: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ports.Identity{}, errors.New("resolve caller: unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return ports.Identity{}, errors.New("resolve caller: token has no subject")
	}
	role, _ := claims["role"].(string)

	return ports.Identity{Subject: sub, Role: role}, nil
}
