package server

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService verifies session tokens issued by the external identity
// provider. Tokens are HS256 signed with a shared secret; the subject claim
// carries the provider's user id.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a verifier for the given shared secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// ValidateToken parses and verifies a token, returning its subject.
func (j *JWTService) ValidateToken(tokenString string) (string, error) {
	if len(j.secret) == 0 {
		return "", fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token missing subject claim")
	}
	return subject, nil
}
