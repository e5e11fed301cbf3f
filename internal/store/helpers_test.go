package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/discern/internal/testutil"
)

// createTestStore opens a fresh snapshot in a temp dir with fixed ids.
func createTestStore(t *testing.T, name string, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".db")
	s, err := Open(name, path, WithIDGenerator(testutil.NewFixedGenerator(ids...)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
