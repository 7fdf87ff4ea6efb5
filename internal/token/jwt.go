package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature, expiry or
// type checks.
var ErrInvalidToken = errors.New("invalid token")

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims carries the user ID and token type on top of the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	TokenType string `json:"typ"`
}

// Pair is an access token together with the refresh token issued with it.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager signs and verifies HMAC access and refresh tokens. The two kinds use
// separate secrets so one can never stand in for the other.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// GenerateAccessToken creates a short-lived access token.
func (m *Manager) GenerateAccessToken(userID string) (string, error) {
	s, err := m.sign(userID, typeAccess, m.accessTTL, m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return s, nil
}

// GenerateRefreshToken creates a long-lived refresh token with a unique JTI.
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	s, err := m.sign(userID, typeRefresh, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return s, nil
}

// GeneratePair issues a fresh access and refresh token for userID.
func (m *Manager) GeneratePair(userID string) (Pair, error) {
	access, err := m.GenerateAccessToken(userID)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.GenerateRefreshToken(userID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccessToken validates an access token and returns its user ID.
func (m *Manager) ParseAccessToken(tokenString string) (string, error) {
	return m.parse(tokenString, typeAccess, m.accessSecret)
}

// ParseRefreshToken validates a refresh token and returns its user ID.
func (m *Manager) ParseRefreshToken(tokenString string) (string, error) {
	return m.parse(tokenString, typeRefresh, m.refreshSecret)
}

func (m *Manager) sign(userID, typ string, ttl time.Duration, secret []byte) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
		UserID:    userID,
		TokenType: typ,
	}
	if typ == typeRefresh {
		claims.ID = uuid.NewString()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) parse(tokenString, typ string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.TokenType != typ {
		return "", fmt.Errorf("%w: token type mismatch: %s", ErrInvalidToken, claims.TokenType)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims.UserID, nil
}
