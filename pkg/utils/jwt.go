package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims represents the claims in a token issued by the auth service
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Roles  []string  `json:"roles"`
	jwt.RegisteredClaims
}

// JWTVerifier validates bearer tokens issued by the external auth service.
// This API never issues tokens itself; session management lives outside.
type JWTVerifier struct {
	secretKey []byte
	leeway    time.Duration
}

// NewJWTVerifier creates a new JWT verifier sharing the auth service's secret
func NewJWTVerifier(secret string, leeway time.Duration) *JWTVerifier {
	return &JWTVerifier{
		secretKey: []byte(secret),
		leeway:    leeway,
	}
}

// Verify parses and validates a token string and returns the claims
func (v *JWTVerifier) Verify(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	}, jwt.WithLeeway(v.leeway))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.UserID == uuid.Nil && claims.Subject != "" {
		if id, err := uuid.Parse(claims.Subject); err == nil {
			claims.UserID = id
		}
	}

	return claims, nil
}
