package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/deskicons/internal/icon"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(icon.NewSequenceGenerator("icon")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// standardIcon creates a catalog icon with minimal required fields.
func standardIcon(module string, idx int) icon.Icon {
	return icon.Icon{
		ModuleName: module,
		Owner:      icon.SystemUser,
		Standard:   true,
		App:        "erp",
		Idx:        idx,
	}
}

// userIcon creates a user override with minimal required fields.
func userIcon(module, owner string, idx int) icon.Icon {
	return icon.Icon{
		ModuleName: module,
		Owner:      owner,
		Idx:        idx,
	}
}
