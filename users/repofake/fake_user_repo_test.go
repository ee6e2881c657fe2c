package fakeuserrepo_test

import (
	"context"
	"testing"

	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/users"
	fakeuserrepo "github.com/jrsteele09/go-forum-auth/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	require.NoError(t, repo.Create(ctx, &users.User{Email: "a@b.com", Username: "alice", IsActive: true}))

	err := repo.Create(ctx, &users.User{Email: "a@b.com", Username: "other"})
	require.ErrorIs(t, err, autherrors.ErrConflict)

	err = repo.Create(ctx, &users.User{Email: "other@b.com", Username: "alice"})
	require.ErrorIs(t, err, autherrors.ErrConflict)

	require.Equal(t, 1, repo.Count())
}

func TestFakeUserRepo_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: "a@b.com", Username: "alice", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	exists, err := repo.ExistsByEmailOrUsername(ctx, "x@b.com", "alice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByEmailOrUsername(ctx, "x@b.com", "bob")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, autherrors.ErrNotFound)

	require.NoError(t, repo.Delete(u.ID))
	_, err = repo.GetByEmail(ctx, "a@b.com")
	require.ErrorIs(t, err, autherrors.ErrNotFound)
}
