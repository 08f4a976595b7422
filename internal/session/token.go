package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMalformed = errors.New("token is not three dot-separated segments")
	errNoExpiry  = errors.New("token has no exp claim")
)

// ExpiresAt decodes the exp claim of a JWT without verifying its signature.
// Only the payload segment is read; the header plays no part.
func ExpiresAt(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, errMalformed
	}
	raw, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("decode token payload: %w", err)
	}
	var claims jwt.RegisteredClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token claims: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// tokenValid reports whether token carries an exp claim strictly after now,
// compared at second precision. Any decode failure means invalid.
func tokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return exp.Unix() > now.Unix()
}
