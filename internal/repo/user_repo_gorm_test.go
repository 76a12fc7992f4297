package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamblog/internal/domain"
	"streamblog/internal/testutil"
)

func TestUserRepo_CRUD(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	u := &domain.User{Username: "bob", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := users.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, users.UpdateFields(ctx, u.ID, map[string]any{"bio": "film nerd"}))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "film nerd", got.Bio)

	assert.ErrorIs(t, users.UpdateFields(ctx, "missing", map[string]any{"bio": "x"}), domain.ErrNotFound)

	list, total, err := users.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}
