// Package auth issues and checks the signed player tokens that bind a
// client to one session.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// PlayerClaims is what a player token carries.
type PlayerClaims struct {
	SessionToken string
	Player       string
	ExpiresAt    time.Time
}

// IssuePlayerToken signs an HS256 token for one session.
func IssuePlayerToken(secret, sessionToken, player string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"session": sessionToken,
		"player":  player,
		"exp":     jwt.NewNumericDate(exp).Unix(),
		"iat":     time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign player token: %w", err)
	}
	return signed, exp, nil
}

// ParsePlayerToken verifies signature, algorithm and expiry.
func ParsePlayerToken(secret, tokenString string) (*PlayerClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	session, _ := claims["session"].(string)
	if session == "" {
		return nil, ErrInvalidToken
	}
	player, _ := claims["player"].(string)

	out := &PlayerClaims{SessionToken: session, Player: player}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
