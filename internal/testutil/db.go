// Package testutil provides test utilities for database and backend setup.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
)

// NewTestDB creates a migrated SQLite database in a temp dir.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "kit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
