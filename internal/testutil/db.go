// Package testutil provides test utilities for profile database setup.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/infrastructure/sqlite"
)

// NewTestDB opens a migrated profile database in a temp directory.
// It is closed when the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "profiles.db"))
}

// NewTestDBAt opens and migrates the database at path, closing it when the
// test ends.
func NewTestDBAt(t *testing.T, path string) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
