package test

import (
	"path/filepath"
	"testing"

	"github.com/envelope-ledger/backend/pkg/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TmpFile returns the path to a unique file to be used in tests
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// Database connects to a fresh database file. The connection is closed
// when the test finishes.
func Database(t *testing.T) *store.Database {
	db, err := store.Connect(TmpFile(t))
	require.Nil(t, err, "Database connection failed")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
