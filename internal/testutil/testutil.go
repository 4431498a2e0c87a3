// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mirekh/jotdesk/internal/notestore"
	"github.com/mirekh/jotdesk/internal/storage"
)

// QuietLogger returns a logger that discards all output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDir creates a temporary notes directory with a storage provider.
func TestDir(t *testing.T) (string, *storage.Dir) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// TestStore creates a temporary notes directory with an empty store over it.
func TestStore(t *testing.T) (string, *notestore.Store) {
	t.Helper()
	dir, files := TestDir(t)
	return dir, notestore.New(files, QuietLogger())
}
