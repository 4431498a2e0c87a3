package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mirekh/jotdesk/internal/apperr"
)

// Ext is the fixed extension for note files.
const Ext = ".txt"

// invalidTitleChars are characters that cannot appear in a title because the
// title is used verbatim as a filename. Both separators are rejected on every
// platform so a notes directory stays portable.
const invalidTitleChars = "/\\\x00"

// ValidateTitle reports whether title can be used as a note filename stem.
// It returns apperr.ErrEmptyTitle for blank titles and apperr.ErrInvalidTitle
// for titles that would escape or alias a directory entry.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.ErrEmptyTitle
	}
	if title == "." || title == ".." {
		return apperr.ErrInvalidTitle
	}
	if strings.ContainsAny(title, invalidTitleChars) {
		return apperr.ErrInvalidTitle
	}
	return nil
}

// Dir implements Provider backed by a single flat directory.
type Dir struct {
	root string // absolute path to the notes directory
}

// NewDir creates a new Dir provider rooted at the given directory.
// The directory must already exist.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute path of the notes directory.
func (d *Dir) Root() string {
	return d.root
}

// path maps a title to its absolute file path, validating the title first.
func (d *Dir) path(title string) (string, error) {
	if err := ValidateTitle(title); err != nil {
		return "", err
	}
	return filepath.Join(d.root, title+Ext), nil
}

// List returns metadata for every note file directly under the root.
// os.ReadDir sorts by filename, so the order is deterministic.
func (d *Dir) List() ([]Entry, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		info, infoErr := e.Info()
		if infoErr != nil {
			// Entry vanished between ReadDir and Stat; treat as absent.
			continue
		}
		out = append(out, Entry{
			Title:   strings.TrimSuffix(e.Name(), Ext),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the full content of the note file for title.
func (d *Dir) Read(title string) ([]byte, error) {
	abs, err := d.path(title)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", title, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (d *Dir) Write(title string, content []byte) error {
	abs, err := d.path(title)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.root, ".jotdesk-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the note file for title.
func (d *Dir) Delete(title string) error {
	abs, err := d.path(title)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", title, err)
	}
	return nil
}
