package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
	"github.com/lumos-rgb/lumos/internal/profile"
)

// Builder accumulates categories and profiles and saves them in order.
type Builder struct {
	t          *testing.T
	db         *sqlite.DB
	categories []categoryData
	profiles   []profileData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithProfile adds a profile matching regex with optional configuration.
func (b *Builder) WithProfile(regex string, opts ...ProfileOption) *Builder {
	p := defaultProfile(regex)
	for _, opt := range opts {
		opt(&p)
	}
	b.profiles = append(b.profiles, p)
	return b
}

// WithCategory adds a category that profiles can join with InCategory.
func (b *Builder) WithCategory(name string, priority int, enabled bool) *Builder {
	b.categories = append(b.categories, categoryData{name: name, priority: priority, enabled: enabled})
	return b
}

// Build saves all accumulated categories and profiles and returns the
// profiles with IDs assigned.
func (b *Builder) Build() []*profile.Profile {
	b.t.Helper()
	ctx := context.Background()

	categories := make(map[string]*profile.Category, len(b.categories))
	for _, data := range b.categories {
		c := &profile.Category{Name: data.name, Priority: data.priority, Enabled: data.enabled}
		require.NoError(b.t, b.db.Categories().Save(ctx, c))
		categories[c.Name] = c
	}

	saved := make([]*profile.Profile, 0, len(b.profiles))
	for _, data := range b.profiles {
		p, err := profile.New(data.regex, data.areas, data.priority)
		require.NoError(b.t, err)
		if data.guid != "" {
			p.SetGUID(data.guid)
		}
		if data.category != "" {
			c, ok := categories[data.category]
			require.True(b.t, ok, "unknown category %q", data.category)
			p.SetCategory(c)
		}
		require.NoError(b.t, b.db.Profiles().Save(ctx, p))
		if data.push != nil {
			err := b.db.SyncState().RecordPush(ctx, []int64{p.ID()}, data.push.address, data.push.at)
			require.NoError(b.t, err)
		}
		saved = append(saved, p)
	}
	return saved
}
