package users_test

import (
	"context"
	"testing"

	"github.com/mobileauth/go-otp-server/users"
	"github.com/mobileauth/go-otp-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserCreatesOnFirstContact(t *testing.T) {
	repo := repofake.NewFakeUserRepo()
	registry, err := users.NewRegistry(repo)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := registry.EnsureUser(ctx, "+989120000000")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "+989120000000", user.Mobile)
	require.Empty(t, user.FirstName)
	require.False(t, user.MobileVerified)
}

func TestEnsureUserReturnsExisting(t *testing.T) {
	repo := repofake.NewFakeUserRepo()
	registry, err := users.NewRegistry(repo)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := registry.EnsureUser(ctx, "+989120000000")
	require.NoError(t, err)

	second, err := registry.EnsureUser(ctx, "+989120000000")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNewRegistryRequiresRepo(t *testing.T) {
	_, err := users.NewRegistry(nil)
	require.Error(t, err)
}
