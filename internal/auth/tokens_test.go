package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManagerIssueAndParseRoundTrip(t *testing.T) {
	manager := NewManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	principal := Principal{ID: 42, Role: "teacher", TenantID: 7}

	access, err := manager.IssueAccessToken(principal)
	require.NoError(t, err)

	parsed, err := manager.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, principal, parsed)

	refresh, err := manager.IssueRefreshToken(principal)
	require.NoError(t, err)

	parsed, err = manager.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, principal, parsed)
}

func TestManagerRejectsCrossKindTokens(t *testing.T) {
	manager := NewManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	principal := Principal{ID: 1, Role: "admin", TenantID: 1}

	refresh, err := manager.IssueRefreshToken(principal)
	require.NoError(t, err)

	_, err = manager.ParseAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	access, err := manager.IssueAccessToken(principal)
	require.NoError(t, err)

	_, err = manager.ParseRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	manager := NewManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	manager.now = func() time.Time { return issuedAt }

	token, err := manager.IssueAccessToken(Principal{ID: 9, Role: "student", TenantID: 3})
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.ParseAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManagerRejectsForeignSignature(t *testing.T) {
	issuer := NewManager("one-secret", "refresh", time.Minute, time.Hour)
	verifier := NewManager("other-secret", "refresh", time.Minute, time.Hour)

	token, err := issuer.IssueAccessToken(Principal{ID: 5, Role: "student", TenantID: 2})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
