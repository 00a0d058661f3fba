package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/profile"
)

func TestCategoryRepository_SaveAndFind(t *testing.T) {
	repo := setupTestDB(t).Categories()
	ctx := context.Background()

	c := &profile.Category{Name: "video", Priority: 5, Enabled: true}
	require.NoError(t, repo.Save(ctx, c))
	assert.Positive(t, c.ID)

	got, err := repo.FindByName(ctx, "video")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.Enabled = false
	c.Priority = -1
	require.NoError(t, repo.Save(ctx, c))
	got, err = repo.FindByName(ctx, "video")
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, -1, got.Priority)
}

func TestCategoryRepository_NameIsUnique(t *testing.T) {
	repo := setupTestDB(t).Categories()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &profile.Category{Name: "games", Enabled: true}))
	require.Error(t, repo.Save(ctx, &profile.Category{Name: "games"}))
	require.ErrorIs(t, repo.Save(ctx, &profile.Category{}), profile.ErrEmptyCategoryName)
}

func TestCategoryRepository_NotFound(t *testing.T) {
	repo := setupTestDB(t).Categories()
	ctx := context.Background()

	_, err := repo.FindByName(ctx, "missing")
	require.True(t, profile.IsNotFound(err))
	require.True(t, profile.IsNotFound(repo.Delete(ctx, 42)))
	require.True(t, profile.IsNotFound(repo.Save(ctx, &profile.Category{ID: 42, Name: "x"})))
}

func TestCategoryRepository_ListOrderedByName(t *testing.T) {
	repo := setupTestDB(t).Categories()
	ctx := context.Background()

	for _, name := range []string{"video", "games", "browsers"} {
		require.NoError(t, repo.Save(ctx, &profile.Category{Name: name, Enabled: true}))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"browsers", "games", "video"}, names)
}

func TestProfileRepository_CategoryMembership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	video := &profile.Category{Name: "video", Priority: 5}
	require.NoError(t, db.Categories().Save(ctx, video))

	p := newTestProfile(t, "^mpv", fullScreen, nil)
	p.SetCategory(video)
	require.NoError(t, db.Profiles().Save(ctx, p))

	got, err := db.Profiles().FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, video, got.Category())
	assert.False(t, got.Enabled())
	assert.Equal(t, intPtr(5), got.EffectivePriority())

	got.SetCategory(nil)
	require.NoError(t, db.Profiles().Save(ctx, got))
	got, err = db.Profiles().FindByGUID(ctx, p.GUID())
	require.NoError(t, err)
	assert.Nil(t, got.Category())
}

func TestProfileRepository_DeletingCategoryUncategorisesProfiles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	games := &profile.Category{Name: "games", Enabled: true}
	require.NoError(t, db.Categories().Save(ctx, games))
	p := newTestProfile(t, "Steam", fullScreen, nil)
	p.SetCategory(games)
	require.NoError(t, db.Profiles().Save(ctx, p))

	require.NoError(t, db.Categories().Delete(ctx, games.ID))

	list, err := db.Profiles().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Category())
}

func TestProfileRepository_UnsavedCategory(t *testing.T) {
	db := setupTestDB(t)

	p := newTestProfile(t, "x", fullScreen, nil)
	p.SetCategory(&profile.Category{Name: "new"})
	err := db.Profiles().Save(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `category "new" must be saved`)
	assert.Zero(t, p.ID())
}
