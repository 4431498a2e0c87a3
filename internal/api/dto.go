package api

import "github.com/mirekh/jotdesk/internal/models"

// SaveNoteRequest is the request body for saving a note. Index identifies
// the collection position to replace; omit it (or send a negative value)
// to append a new note.
type SaveNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Index   *int   `json:"index,omitempty"`
}

// NoteListResponse is the response body for list, search, and reload.
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// ExportRequest is the request body for exporting editor text to a
// user-chosen file. The fields need not correspond to a saved note.
type ExportRequest struct {
	Path      string `json:"path"`
	Title     string `json:"title"`
	DateLabel string `json:"date_label"`
	Content   string `json:"content"`
}

// ImportRequest is the request body for importing a user-chosen file into
// the draft content area.
type ImportRequest struct {
	Path string `json:"path"`
}

// ImportResponse carries the imported file content.
type ImportResponse struct {
	Content string `json:"content"`
}
