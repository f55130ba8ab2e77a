package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/mobileauth/go-otp-server/token"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-1"
	refreshSecret = "refresh-secret-1"
	testUserID    = int64(42)
	testMobile    = "+989120000000"
)

func newManager(now *time.Time) *token.Manager {
	return token.New(
		token.NewHMACSigner(accessSecret),
		token.NewHMACSigner(refreshSecret),
		token.WithNowFunc(func() time.Time { return *now }),
	)
}

func TestMintPairRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	pair, err := m.MintPair(testUserID, testMobile)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testUserID, claims.UserID)
	require.Equal(t, testMobile, claims.Mobile)
}

func TestValidateAccessTokenAfterExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	pair, err := m.MintPair(testUserID, testMobile)
	require.NoError(t, err)

	// Accepted just before the 30 day lifetime elapses
	now = now.Add(30*24*time.Hour - time.Minute)
	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	pair, err := m.MintPair(testUserID, testMobile)
	require.NoError(t, err)

	// Signed with the refresh secret, not the access secret
	_, err = m.ValidateAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	other := token.New(
		token.NewHMACSigner("a-different-secret"),
		token.NewHMACSigner(refreshSecret),
		token.WithNowFunc(func() time.Time { return now }),
	)

	pair, err := other.MintPair(testUserID, testMobile)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}

func TestValidateAccessTokenMalformed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := m.ValidateAccessToken(raw)
		require.ErrorIs(t, err, token.UnauthenticatedErr)
	}
}

func TestValidateAccessTokenMissingIDClaim(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(&now)

	signer := token.NewHMACSigner(accessSecret)
	raw, err := signer.Sign(jwtlib.MapClaims{
		"mobile": testMobile,
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(raw)
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}

func TestCustomExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := token.New(
		token.NewHMACSigner(accessSecret),
		token.NewHMACSigner(refreshSecret),
		token.WithTokenExpiry(time.Minute, time.Hour),
		token.WithNowFunc(func() time.Time { return now }),
	)

	pair, err := m.MintPair(testUserID, testMobile)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, token.UnauthenticatedErr)
}
