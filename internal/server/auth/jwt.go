// Package auth issues and verifies the signed bearer tokens that gate
// protected requests. Tokens are HS256 JWTs carrying the account ID; the
// signing secret is process-wide state, loaded once at startup.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"doorman/internal/common"
)

// Claims embeds the registered claim set plus the account identifier the
// token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken mints a token for userID that expires validityDuration from
// now.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the token's signature and expiry and returns
// the embedded account ID. Malformed, tampered, and expired tokens all fail
// with common.ErrTokenInvalid; verification consults nothing but the token,
// the secret, and the clock.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrTokenInvalid
	}

	if !token.Valid {
		return "", common.ErrTokenInvalid
	}

	return claims.UserID, nil
}
