// Package auth issues and validates the HS256 bearer tokens used by the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/freshtrack/backend/internal/domain"
)

// ErrInvalidToken is returned for expired, malformed, or mis-signed tokens
var ErrInvalidToken = errors.New("invalid token")

// Claims is the validated identity attached to authenticated requests
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenManager signs and validates JWTs with a shared HMAC secret
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager. ttl defaults to 24h when zero.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token carrying the user's identity and role
func (m *TokenManager) Generate(user *domain.User) (string, error) {
	if user == nil || user.ID == uuid.Nil {
		return "", errors.New("user is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"userID": user.ID.String(),
		"email":  user.Email,
		"role":   user.Role,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token string and returns its claims
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["userID"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: userID, Email: email, Role: role}, nil
}
