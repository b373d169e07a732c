package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers missing, malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidSubject means the token verified but its subject is not a user id string.
	ErrInvalidSubject = errors.New("token subject is not a valid user id")
)

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. A ttl of zero issues tokens without expiry.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token whose subject is the decimal user id.
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iss": m.issuer,
		"iat": now.Unix(),
		"jti": uuid.NewString(),
	}
	if m.ttl > 0 {
		claims["exp"] = now.Add(m.ttl).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the user id and token id.
func (m *TokenManager) Verify(tokenString string) (int64, string, error) {
	if tokenString == "" {
		return 0, "", ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	raw, ok := claims["sub"]
	if !ok || raw == nil {
		return 0, "", ErrInvalidToken
	}

	sub, ok := raw.(string)
	if !ok {
		return 0, "", ErrInvalidSubject
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", ErrInvalidSubject
	}

	jti, _ := claims["jti"].(string)
	return userID, jti, nil
}
