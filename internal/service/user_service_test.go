package service

import (
	"context"
	"testing"

	"helpme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("NewMember", func(t *testing.T) {
		user, err := env.users.Register(ctx, "alice", "secret", "0101")
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.False(t, user.IsAdmin())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := env.users.Register(ctx, "alice", "other", "")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("ConfiguredAdmin", func(t *testing.T) {
		user, err := env.users.Register(ctx, "admin", "root", "")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})
}

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "alice", "secret", "")
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		user, err := env.users.Authenticate(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := env.users.Authenticate(ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := env.users.Authenticate(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "alice", "secret", "0101")
	require.NoError(t, err)

	user, err := env.users.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "0101", user.Phone)

	_, err = env.users.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
