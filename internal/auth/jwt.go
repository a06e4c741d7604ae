package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer    = "project-gateway"
	adminRole = "admin"
)

// Claims identify an admin session.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func generateToken(secret []byte, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	expires := issuedAt.Add(ttl)
	claims := Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   adminRole,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, expires, err
}

func validateToken(secret []byte, tokenStr string, now time.Time) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != adminRole {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
