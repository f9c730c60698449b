package jwtsecret

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and checks the HS256 tokens consensus clients present
// on engine-API calls, signed with the shared 32-byte secret.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer builds an issuer from the hex-encoded shared secret.
func NewTokenIssuer(hexSecret string) (*TokenIssuer, error) {
	secret, err := hex.DecodeString(strings.TrimSpace(hexSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to decode jwt secret: %w", err)
	}
	if len(secret) != 32 {
		return nil, fmt.Errorf("jwt secret must be 32 bytes, got %d", len(secret))
	}
	return &TokenIssuer{secret: secret}, nil
}

// Issue creates a signed token with its issued-at claim set to now. Engine
// endpoints only accept tokens issued within a short window around their
// own clock, so tokens are minted per call rather than cached.
func (t *TokenIssuer) Issue() (string, error) {
	claims := jwt.RegisteredClaims{
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token against the shared secret
func (t *TokenIssuer) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
