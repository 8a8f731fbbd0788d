package blogcore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptoria/blogcore"
)

func newAuthFixture() (*blogcore.TokenService, *fakeUserStore, *fakeAdminStore, *blogcore.Auther) {
	users := newFakeUserStore()
	admins := newFakeAdminStore()
	tokens := blogcore.NewTokenService(newTestConfig(), &memoryWriter{})
	auther := blogcore.NewAuthenticator(tokens, users, admins)
	return tokens, users, admins, auther
}

func TestAuther_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty token", func(t *testing.T) {
		_, _, _, auther := newAuthFixture()

		session, err := auther.Authenticate(ctx, "", blogcore.RoleUser)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, blogcore.ErrNotAuthenticated)
	})

	t.Run("rejects a token that does not decode", func(t *testing.T) {
		_, _, _, auther := newAuthFixture()

		session, err := auther.Authenticate(ctx, "garbage", blogcore.RoleUser)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, blogcore.ErrNotAuthenticated)
	})

	t.Run("resolves a user session", func(t *testing.T) {
		tokens, users, _, auther := newAuthFixture()

		user := &blogcore.User{ID: uuid.New(), UserName: "pippa"}
		token, err := tokens.Issue(ctx, user)
		require.NoError(t, err)
		users.users[user.ID] = user

		session, err := auther.Authenticate(ctx, token, blogcore.RoleUser)

		require.NoError(t, err)
		assert.Equal(t, user.ID, session.Identity().IdentityID())
		assert.Equal(t, token, session.Token())
	})

	t.Run("a revoked token fails even though it still verifies", func(t *testing.T) {
		tokens, users, _, auther := newAuthFixture()

		user := &blogcore.User{ID: uuid.New()}
		token, err := tokens.Issue(ctx, user)
		require.NoError(t, err)
		users.users[user.ID] = user

		require.NoError(t, tokens.RevokeOne(ctx, user, token))

		// Signature and expiry are still fine.
		_, err = tokens.Verify(token)
		require.NoError(t, err)

		session, err := auther.Authenticate(ctx, token, blogcore.RoleUser)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, blogcore.ErrNotAuthenticated)
	})

	t.Run("the admin hint resolves against the admin collection", func(t *testing.T) {
		tokens, _, admins, auther := newAuthFixture()

		admin := &blogcore.Admin{ID: uuid.New(), UserName: "root"}
		token, err := tokens.Issue(ctx, admin)
		require.NoError(t, err)
		admins.admins[admin.ID] = admin

		session, err := auther.Authenticate(ctx, token, blogcore.RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, blogcore.RoleAdmin, session.Identity().IdentityRole())
	})

	t.Run("an admin token with a user hint fails", func(t *testing.T) {
		tokens, _, admins, auther := newAuthFixture()

		admin := &blogcore.Admin{ID: uuid.New(), UserName: "root"}
		token, err := tokens.Issue(ctx, admin)
		require.NoError(t, err)
		admins.admins[admin.ID] = admin

		session, err := auther.Authenticate(ctx, token, blogcore.RoleUser)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, blogcore.ErrNotAuthenticated)
	})

	t.Run("a blocked user still authenticates", func(t *testing.T) {
		tokens, users, _, auther := newAuthFixture()

		user := &blogcore.User{ID: uuid.New(), Blocked: true}
		token, err := tokens.Issue(ctx, user)
		require.NoError(t, err)
		users.users[user.ID] = user

		session, err := auther.Authenticate(ctx, token, blogcore.RoleUser)

		require.NoError(t, err)
		assert.NotNil(t, session)
	})
}

func TestAuther_RequireAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("passes when an admin record exists", func(t *testing.T) {
		_, _, admins, auther := newAuthFixture()

		admin := &blogcore.Admin{ID: uuid.New()}
		admins.admins[admin.ID] = admin

		assert.NoError(t, auther.RequireAdmin(ctx, admin.ID))
	})

	t.Run("fails for any other id", func(t *testing.T) {
		_, _, _, auther := newAuthFixture()

		err := auther.RequireAdmin(ctx, uuid.New())

		assert.ErrorIs(t, err, blogcore.ErrAdminRequired)
	})
}
