package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/profile"
)

const fullScreen = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "lumos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestProfile(t *testing.T, regex, areas string, priority *int) *profile.Profile {
	t.Helper()
	p, err := profile.New(regex, areas, priority)
	require.NoError(t, err)
	return p
}

func intPtr(v int) *int { return &v }

func TestProfileRepository_SaveAssignsID(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	first := newTestProfile(t, "firefox", fullScreen, nil)
	second := newTestProfile(t, "mpv", fullScreen, intPtr(3))

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	assert.Positive(t, first.ID())
	assert.Greater(t, second.ID(), first.ID())
}

func TestProfileRepository_FindByID(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	p := newTestProfile(t, "^Steam$", "1920x1080 { x: 10px; y: 20px; width: 50%; height: 12.5%; }", intPtr(-2))
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.ID(), got.ID())
	assert.Equal(t, p.GUID(), got.GUID())
	assert.Equal(t, "^Steam$", got.Regex())
	assert.Equal(t, p.Areas(), got.Areas())
	assert.Equal(t, intPtr(-2), got.Priority())
	assert.Equal(t, p.CreatedAt().UnixMilli(), got.CreatedAt().UnixMilli())
	assert.True(t, got.MatchesTitle("Steam"))
}

func TestProfileRepository_FindByGUID(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	p := newTestProfile(t, "vlc", fullScreen, nil)
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByGUID(ctx, p.GUID())
	require.NoError(t, err)
	assert.Equal(t, p.ID(), got.ID())
	assert.Nil(t, got.Priority())
}

func TestProfileRepository_NotFound(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	require.Error(t, err)
	assert.True(t, profile.IsNotFound(err))

	_, err = repo.FindByGUID(ctx, "missing")
	assert.True(t, profile.IsNotFound(err))

	assert.True(t, profile.IsNotFound(repo.Delete(ctx, 42)))

	ghost := newTestProfile(t, "ghost", "", nil)
	ghost.SetID(42)
	assert.True(t, profile.IsNotFound(repo.Save(ctx, ghost)), "updating a missing row is not found")
}

func TestProfileRepository_Update(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	p := newTestProfile(t, "firefox", fullScreen, nil)
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, p.SetRegex("chromium"))
	require.NoError(t, p.SetAreasText("800x600 { x: 1px; y: 2px; width: 3px; height: 4px; }"))
	p.SetPriority(intPtr(9))
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "chromium", got.Regex())
	assert.Equal(t, areaspec.Resolution(800, 600), got.Areas()[0].Selector)
	assert.Equal(t, intPtr(9), got.Priority())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "update must not insert")
}

func TestProfileRepository_ListOrderedByID(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, regex := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, newTestProfile(t, regex, fullScreen, nil)))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Regex())
	assert.Equal(t, "b", all[1].Regex())
	assert.Equal(t, "c", all[2].Regex())
}

func TestProfileRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := db.Profiles()
	ctx := context.Background()

	p := newTestProfile(t, "firefox", fullScreen, nil)
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, db.SyncState().RecordPush(ctx, []int64{p.ID()}, "ws://localhost:9901", time.Now()))

	require.NoError(t, repo.Delete(ctx, p.ID()))

	_, err := repo.FindByID(ctx, p.ID())
	assert.True(t, profile.IsNotFound(err))

	_, ok, err := db.SyncState().LastPush(ctx, p.ID())
	require.NoError(t, err)
	assert.False(t, ok, "push record should cascade with the profile")
}

func TestSyncState_RecordPush(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	p := newTestProfile(t, "firefox", fullScreen, nil)
	require.NoError(t, db.Profiles().Save(ctx, p))

	_, ok, err := db.SyncState().LastPush(ctx, p.ID())
	require.NoError(t, err)
	assert.False(t, ok)

	first := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, db.SyncState().RecordPush(ctx, []int64{p.ID()}, "ws://a:1", first))
	second := first.Add(time.Minute)
	require.NoError(t, db.SyncState().RecordPush(ctx, []int64{p.ID()}, "ws://b:2", second))

	rec, ok, err := db.SyncState().LastPush(ctx, p.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ws://b:2", rec.Address)
	assert.True(t, second.Equal(rec.PushedAt))
}

func TestSyncState_RecordPushUnknownProfile(t *testing.T) {
	db := setupTestDB(t)

	err := db.SyncState().RecordPush(context.Background(), []int64{999}, "ws://a:1", time.Now())
	require.Error(t, err, "foreign key should reject unknown profiles")
}

// Stored areas come back identical to what was saved.
func TestProfileRepository_Property_AreasRoundTrip(t *testing.T) {
	repo := setupTestDB(t).Profiles()
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		doc := make(areaspec.Document, rapid.IntRange(0, 3).Draw(rt, "n"))
		for i := range doc {
			doc[i] = areaspec.Area{
				Selector: areaspec.Resolution(
					rapid.IntRange(1, 8192).Draw(rt, "w"),
					rapid.IntRange(1, 8192).Draw(rt, "h"),
				),
				X:      areaspec.Pixels(rapid.IntRange(0, 8192).Draw(rt, "x")),
				Y:      areaspec.Percentage(rapid.Float64Range(0, 100).Draw(rt, "y")),
				Width:  areaspec.Percentage(rapid.Float64Range(0, 100).Draw(rt, "width")),
				Height: areaspec.Pixels(rapid.IntRange(0, 8192).Draw(rt, "height")),
			}
		}

		p, err := profile.New(".*", "", nil)
		if err != nil {
			rt.Fatal(err)
		}
		p.SetAreas(doc)
		if err := repo.Save(ctx, p); err != nil {
			rt.Fatal(err)
		}

		got, err := repo.FindByID(ctx, p.ID())
		if err != nil {
			rt.Fatal(err)
		}
		stored := got.Areas()
		if len(stored) != len(doc) {
			rt.Fatalf("got %d areas, want %d", len(stored), len(doc))
		}
		for i := range doc {
			if stored[i] != doc[i] {
				rt.Fatalf("area %d: got %+v, want %+v", i, stored[i], doc[i])
			}
		}
	})
}
