// Package jwt validates the HMAC access tokens the external profile service
// issues. This service never mints tokens; identity is owned elsewhere and
// the matcher only needs the opaque user id carried in the subject claim.
package jwt

import (
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	jwtlib.RegisteredClaims
}

type Service interface {
	// ValidateAccessToken checks signature and expiry and returns the
	// subject (the external user id).
	ValidateAccessToken(tokenString string) (string, error)
}

type HMACService struct {
	secret []byte
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{secret: []byte(secret)}
}

func (s *HMACService) ValidateAccessToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenString, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}
