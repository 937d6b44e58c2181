package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the claims the client reads from an identity token.
type TokenClaims struct {
	// UserID is the "user_id" claim, falling back to "sub".
	UserID string
	// Email is the "email" claim; may be empty.
	Email string
	// ExpiresAt is the "exp" claim; zero when absent.
	ExpiresAt time.Time
}

// ParseTokenClaims extracts claims from an identity token without verifying
// its signature. The token was received over TLS directly from the identity
// provider and is only used to read the account identifier and expiry.
func ParseTokenClaims(tokenString string) (TokenClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error parsing identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid token claims")
	}

	var result TokenClaims
	if uid, ok := claims["user_id"].(string); ok {
		result.UserID = uid
	}
	if result.UserID == "" {
		sub, err := claims.GetSubject()
		if err != nil {
			return TokenClaims{}, fmt.Errorf("error getting subject from token: %w", err)
		}
		result.UserID = sub
	}
	if result.UserID == "" {
		return TokenClaims{}, errors.New("empty subject error")
	}

	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error getting expiry from token: %w", err)
	}
	if exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}
