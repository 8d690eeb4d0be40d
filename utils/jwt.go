package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/deeplehr/checkin/config"
)

// Claims ties a token to one attendance session. There is no credential
// behind it; the token is just the handle to the session's stored state.
type Claims struct {
	SessionID string `json:"session_id"`
	Nickname  string `json:"nickname"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for the given session.
func GenerateToken(sessionID, nickname string, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		SessionID: sessionID,
		Nickname:  nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
