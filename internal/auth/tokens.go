package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken indicates a token failed signature, shape or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by both access and refresh tokens. TenantID is present for
// teachers and students; admins are their own tenant.
type Claims struct {
	Role     string `json:"role"`
	TenantID uint   `json:"admin_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the verified identity extracted from a token.
type Principal struct {
	ID       uint
	Role     string
	TenantID uint
}

// Manager signs and verifies the two token kinds with independent secrets.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewManager builds a token manager. TTLs fall back to 15m/7d when zero.
func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssueAccessToken mints a short-lived access token for the principal.
func (m *Manager) IssueAccessToken(p Principal) (string, error) {
	return m.issue(p, m.accessSecret, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the principal.
func (m *Manager) IssueRefreshToken(p Principal) (string, error) {
	return m.issue(p, m.refreshSecret, m.refreshTTL)
}

// ParseAccessToken verifies an access token and returns the principal.
func (m *Manager) ParseAccessToken(token string) (Principal, error) {
	return m.parse(token, m.accessSecret)
}

// ParseRefreshToken verifies a refresh token and returns the principal.
func (m *Manager) ParseRefreshToken(token string) (Principal, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *Manager) issue(p Principal, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Role:     p.Role,
		TenantID: p.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every mint unique, so rotating a refresh
			// token within the same second still invalidates the old one.
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (m *Manager) parse(tokenString string, secret []byte) (Principal, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Principal{}, ErrInvalidToken
	}

	if claims.Role == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{ID: uint(id), Role: claims.Role, TenantID: claims.TenantID}, nil
}
