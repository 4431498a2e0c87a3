// Package notestore owns the in-memory note collection and mirrors it to
// one-file-per-note persistence.
package notestore

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mirekh/jotdesk/internal/models"
	"github.com/mirekh/jotdesk/internal/storage"
)

// touchedWindow is how long a title written or deleted by this store is
// considered "our own" change when the directory watcher sees it.
const touchedWindow = 2 * time.Second

// Store is the authoritative, insertion-ordered note collection.
//
// The collection order reflects load order followed by append order of new
// saves. Indexes handed out to callers are positions in this order and stay
// valid until the next mutation.
type Store struct {
	files  storage.Provider
	logger *slog.Logger

	mu      sync.RWMutex
	notes   []models.Note
	touched map[string]time.Time
}

// New creates a Store over the given provider. The collection starts empty;
// call LoadAll to populate it from disk.
func New(files storage.Provider, logger *slog.Logger) *Store {
	return &Store{
		files:   files,
		logger:  logger,
		touched: make(map[string]time.Time),
	}
}

// LoadAll replaces the in-memory collection with the notes currently on
// disk. The title is the filename stem and both timestamps are taken from
// the file's last-modified time (the file format carries no metadata).
// Files that cannot be read are logged and skipped; only a failure to
// enumerate the directory itself is fatal.
func (s *Store) LoadAll() ([]models.Note, error) {
	entries, err := s.files.List()
	if err != nil {
		return nil, fmt.Errorf("notestore: load: %w", err)
	}

	loaded := make([]models.Note, 0, len(entries))
	for _, e := range entries {
		data, readErr := s.files.Read(e.Title)
		if readErr != nil {
			s.logger.Warn("load: skipping unreadable note",
				slog.String("title", e.Title),
				slog.String("error", readErr.Error()))
			continue
		}
		loaded = append(loaded, models.Note{
			Title:     e.Title,
			Content:   string(data),
			CreatedAt: e.ModTime,
			UpdatedAt: e.ModTime,
		})
	}

	s.mu.Lock()
	s.notes = loaded
	s.mu.Unlock()

	return s.Notes(), nil
}

// Save validates the title, writes the content to disk, and only then
// mutates the collection: the note at existingIndex is replaced in place
// when the index is in range (its original creation time is preserved),
// otherwise the note is appended. Pass a negative existingIndex to append.
// The replaced result reports which of the two happened, decided under the
// same lock as the mutation.
//
// A validation failure (empty or filename-illegal title) has no side
// effects. A disk-write failure leaves the collection untouched.
func (s *Store) Save(title, content string, existingIndex int) (models.Note, bool, error) {
	title = strings.TrimSpace(title)
	if err := validation.Validate(title, validation.By(titleRule)); err != nil {
		return models.Note{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.files.Write(title, []byte(content)); err != nil {
		return models.Note{}, false, fmt.Errorf("notestore: save %s: %w", title, err)
	}
	s.markTouched(title)

	now := time.Now()
	note := models.Note{
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existingIndex >= 0 && existingIndex < len(s.notes) {
		note.CreatedAt = s.notes[existingIndex].CreatedAt
		s.notes[existingIndex] = note
		return note, true, nil
	}
	s.notes = append(s.notes, note)
	return note, false, nil
}

// Delete removes the note at index from the collection and best-effort
// deletes its backing file. An out-of-range index is a no-op, reported by
// the ok result. A failure to delete the file (including the file already
// being gone) is logged but does not keep the entry in memory.
func (s *Store) Delete(index int) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.notes) {
		return models.Note{}, false
	}
	note := s.notes[index]

	if err := s.files.Delete(note.Title); err != nil {
		s.logger.Warn("delete: removing note file failed",
			slog.String("title", note.Title),
			slog.String("error", err.Error()))
	}
	s.markTouched(note.Title)

	s.notes = append(s.notes[:index], s.notes[index+1:]...)
	return note, true
}

// Search returns the subsequence of notes whose title or content contains
// query, compared case-insensitively. An empty query returns the full
// collection in order. Search is a pure projection and never touches disk.
func (s *Store) Search(query string) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		return append([]models.Note(nil), s.notes...)
	}

	q := strings.ToLower(query)
	var out []models.Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Notes returns a snapshot of the collection in order.
func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Note(nil), s.notes...)
}

// Len returns the number of notes in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns the note at index and whether the index was in range.
func (s *Store) Get(index int) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.notes) {
		return models.Note{}, false
	}
	return s.notes[index], true
}

// IndexByTitle returns the position of the first note with the given title,
// or -1 when no note matches.
func (s *Store) IndexByTitle(title string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, n := range s.notes {
		if n.Title == title {
			return i
		}
	}
	return -1
}

// RecentlyTouched reports whether this store wrote or deleted the given
// title within the suppression window. The watcher uses it to tell the
// store's own file operations apart from external edits.
func (s *Store) RecentlyTouched(title string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.touched[title]
	return ok && time.Since(at) < touchedWindow
}

// markTouched records a self-induced file change. Caller holds mu.
func (s *Store) markTouched(title string) {
	now := time.Now()
	for t, at := range s.touched {
		if now.Sub(at) >= touchedWindow {
			delete(s.touched, t)
		}
	}
	s.touched[title] = now
}

// titleRule adapts storage title validation into an ozzo rule so the
// sentinel errors pass through Validate unchanged.
func titleRule(value interface{}) error {
	title, _ := value.(string)
	return storage.ValidateTitle(title)
}
