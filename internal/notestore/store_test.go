package notestore

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mirekh/jotdesk/internal/apperr"
	"github.com/mirekh/jotdesk/internal/models"
	"github.com/mirekh/jotdesk/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (string, *Store) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return dir, New(files, quietLogger())
}

func titles(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestSaveThenLoadAllRoundTrip(t *testing.T) {
	dir, s := newTestStore(t)

	if _, _, err := s.Save("Groceries", "milk, eggs", -1); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The backing file exists with the exact content.
	data, err := os.ReadFile(filepath.Join(dir, "Groceries"+storage.Ext))
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	if string(data) != "milk, eggs" {
		t.Errorf("file content = %q, want %q", data, "milk, eggs")
	}

	notes, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("len = %d, want 1", len(notes))
	}
	if notes[0].Title != "Groceries" || notes[0].Content != "milk, eggs" {
		t.Errorf("round trip mismatch: %+v", notes[0])
	}
	if notes[0].CreatedAt.IsZero() || !notes[0].CreatedAt.Equal(notes[0].UpdatedAt) {
		t.Errorf("loaded timestamps should both come from the file mod time: %+v", notes[0])
	}
}

func TestSaveEmptyTitleNoSideEffects(t *testing.T) {
	dir, s := newTestStore(t)

	for _, title := range []string{"", "   "} {
		_, _, err := s.Save(title, "content", -1)
		if !errors.Is(err, apperr.ErrEmptyTitle) {
			t.Errorf("Save(%q) error = %v, want ErrEmptyTitle", title, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("collection mutated: len = %d", s.Len())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("disk mutated: %d entries", len(entries))
	}
}

func TestSaveInvalidTitleRejected(t *testing.T) {
	_, s := newTestStore(t)
	for _, title := range []string{"a/b", `a\b`, "..", "."} {
		_, _, err := s.Save(title, "x", -1)
		if !errors.Is(err, apperr.ErrInvalidTitle) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidTitle", title, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("collection mutated: len = %d", s.Len())
	}
}

func TestSaveTrimsTitle(t *testing.T) {
	_, s := newTestStore(t)
	note, _, err := s.Save("  Padded  ", "x", -1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if note.Title != "Padded" {
		t.Errorf("title = %q, want %q", note.Title, "Padded")
	}
}

func TestSaveReplaceInPlacePreservesCreatedAt(t *testing.T) {
	_, s := newTestStore(t)

	first, replaced, err := s.Save("Journal", "day one", -1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if replaced {
		t.Error("first save should report an append")
	}

	time.Sleep(10 * time.Millisecond)

	second, replaced, err := s.Save("Journal", "day two", 0)
	if err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	if !replaced {
		t.Error("in-range save should report a replacement")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on resave: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	got, _ := s.Get(0)
	if got.Content != "day two" {
		t.Errorf("content = %q, want %q", got.Content, "day two")
	}
}

func TestSaveOutOfRangeIndexAppends(t *testing.T) {
	_, s := newTestStore(t)
	_, _, _ = s.Save("A", "alpha", -1)
	_, replaced, err := s.Save("B", "beta", 99)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if replaced {
		t.Error("out-of-range index should report an append")
	}
	if got := titles(s.Notes()); len(got) != 2 || got[1] != "B" {
		t.Errorf("notes = %v, want [A B]", got)
	}
}

func TestDeleteRemovesEntryAndFile(t *testing.T) {
	dir, s := newTestStore(t)
	_, _, _ = s.Save("A", "alpha", -1)
	_, _, _ = s.Save("B", "beta", -1)

	removed, ok := s.Delete(0)
	if !ok {
		t.Fatal("Delete(0) reported no-op")
	}
	if removed.Title != "A" {
		t.Errorf("removed = %q, want A", removed.Title)
	}
	if got := titles(s.Notes()); len(got) != 1 || got[0] != "B" {
		t.Errorf("notes = %v, want [B]", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "A"+storage.Ext)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("backing file still present: %v", err)
	}

	// A reload must not resurrect the deleted note.
	notes, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := titles(notes); len(got) != 1 || got[0] != "B" {
		t.Errorf("after reload notes = %v, want [B]", got)
	}
}

func TestDeleteOutOfRangeIsNoOp(t *testing.T) {
	dir, s := newTestStore(t)
	_, _, _ = s.Save("Only", "one", -1)

	for _, idx := range []int{-1, 1, 42} {
		if _, ok := s.Delete(idx); ok {
			t.Errorf("Delete(%d) should be a no-op", idx)
		}
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
	if _, err := os.Stat(filepath.Join(dir, "Only"+storage.Ext)); err != nil {
		t.Errorf("file should be untouched: %v", err)
	}
}

func TestDeleteProceedsWhenFileAlreadyGone(t *testing.T) {
	dir, s := newTestStore(t)
	_, _, _ = s.Save("Ghost", "boo", -1)

	if err := os.Remove(filepath.Join(dir, "Ghost"+storage.Ext)); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Delete(0); !ok {
		t.Fatal("delete should still remove the in-memory entry")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestSearchEmptyQueryReturnsAllInOrder(t *testing.T) {
	_, s := newTestStore(t)
	_, _, _ = s.Save("C", "3", -1)
	_, _, _ = s.Save("A", "1", -1)
	_, _, _ = s.Save("B", "2", -1)

	got := titles(s.Search(""))
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	_, s := newTestStore(t)
	_, _, _ = s.Save("Todo", "Work deadline on Friday", -1)

	upper := s.Search("WORK")
	lower := s.Search("work")
	if len(upper) != 1 || len(lower) != 1 {
		t.Fatalf("match counts: upper=%d lower=%d, want 1/1", len(upper), len(lower))
	}
	if upper[0].Title != lower[0].Title {
		t.Errorf("results differ: %q vs %q", upper[0].Title, lower[0].Title)
	}
}

func TestSearchMatchesTitleOrContent(t *testing.T) {
	_, s := newTestStore(t)
	_, _, _ = s.Save("A", "alpha", -1)
	_, _, _ = s.Save("B", "beta contains keyword", -1)

	got := s.Search("beta")
	if len(got) != 1 || got[0].Title != "B" {
		t.Errorf("Search(beta) = %v, want [B]", titles(got))
	}

	got = s.Search("A")
	if len(got) != 2 {
		// "A" matches the title "A" and "alpha"/"beta" content.
		t.Errorf("Search(A) matched %v", titles(got))
	}
}

func TestSearchIsIdempotentSubsequence(t *testing.T) {
	_, s := newTestStore(t)
	_, _, _ = s.Save("north", "cold", -1)
	_, _, _ = s.Save("south", "warm", -1)
	_, _, _ = s.Save("northeast", "mild", -1)

	first := titles(s.Search("north"))
	second := titles(s.Search("north"))
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("match counts: %d/%d, want 2/2", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("not idempotent: %v vs %v", first, second)
		}
	}

	// Result preserves the relative order of the full collection.
	if first[0] != "north" || first[1] != "northeast" {
		t.Errorf("order = %v, want [north northeast]", first)
	}
}

func TestSearchNeverTouchesDisk(t *testing.T) {
	dir, s := newTestStore(t)
	_, _, _ = s.Save("keep", "content", -1)

	// Nuke the directory out from under the store; a pure projection
	// must not notice.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	got := s.Search("keep")
	if len(got) != 1 {
		t.Errorf("Search after dir removal = %v, want 1 match", titles(got))
	}
}

func TestLoadAllSkipsUnreadableFiles(t *testing.T) {
	files := &flakyProvider{
		entries: []storage.Entry{
			{Title: "good", ModTime: time.Now()},
			{Title: "bad", ModTime: time.Now()},
		},
		contents: map[string]string{"good": "fine"},
	}
	s := New(files, quietLogger())

	notes, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "good" {
		t.Errorf("notes = %v, want [good]", titles(notes))
	}
}

func TestSaveDiskFailureLeavesMemoryUntouched(t *testing.T) {
	files := &flakyProvider{contents: map[string]string{}, failWrite: true}
	s := New(files, quietLogger())

	_, _, err := s.Save("doomed", "x", -1)
	if err == nil {
		t.Fatal("expected write error")
	}
	if s.Len() != 0 {
		t.Errorf("memory mutated despite failed write: len = %d", s.Len())
	}
}

// flakyProvider is an in-memory Provider with injectable failures.
type flakyProvider struct {
	entries   []storage.Entry
	contents  map[string]string
	failWrite bool
}

func (f *flakyProvider) List() ([]storage.Entry, error) {
	return f.entries, nil
}

func (f *flakyProvider) Read(title string) ([]byte, error) {
	c, ok := f.contents[title]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(c), nil
}

func (f *flakyProvider) Write(title string, content []byte) error {
	if f.failWrite {
		return errors.New("disk full")
	}
	f.contents[title] = string(content)
	return nil
}

func (f *flakyProvider) Delete(title string) error {
	if _, ok := f.contents[title]; !ok {
		return os.ErrNotExist
	}
	delete(f.contents, title)
	return nil
}
