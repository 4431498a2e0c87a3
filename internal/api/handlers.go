package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mirekh/jotdesk/internal/apperr"
	"github.com/mirekh/jotdesk/internal/notestore"
	"github.com/mirekh/jotdesk/internal/sse"
	"github.com/mirekh/jotdesk/internal/transfer"
)

// Handler holds the API route handlers.
type Handler struct {
	store  *notestore.Store
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil; events are then
// simply not published.
func NewHandler(store *notestore.Store, broker *sse.Broker) *Handler {
	return &Handler{store: store, broker: broker}
}

func (h *Handler) publish(kind, title string) {
	if h.broker != nil {
		h.broker.PublishNoteEvent(kind, title)
	}
}

// noteIndex parses the {index} URL parameter. ok is false when the
// parameter is not an integer.
func noteIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, false
	}
	return idx, true
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, _ *http.Request) {
	notes := h.store.Notes()
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notes/{index}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	idx, ok := noteIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return
	}
	note, ok := h.store.Get(idx)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// SaveNote handles POST /api/notes.
func (h *Handler) SaveNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req SaveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	index := -1
	if req.Index != nil {
		index = *req.Index
	}

	note, replaced, err := h.store.Save(req.Title, req.Content, index)
	if err != nil {
		if apperr.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("save note failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	if replaced {
		h.publish("updated", note.Title)
		writeJSON(w, http.StatusOK, note)
		return
	}
	h.publish("created", note.Title)
	writeJSON(w, http.StatusCreated, note)
}

// DeleteNote handles DELETE /api/notes/{index}. Deleting an out-of-range
// index is a no-op and still answers 204.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	idx, ok := noteIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return
	}
	if note, removed := h.store.Delete(idx); removed {
		h.publish("deleted", note.Title)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	notes := h.store.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// Reload handles POST /api/reload: it replaces the collection with the
// current on-disk state.
func (h *Handler) Reload(w http.ResponseWriter, _ *http.Request) {
	notes, err := h.store.LoadAll()
	if err != nil {
		slog.Error("reload failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.broker != nil {
		h.broker.PublishReloaded()
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// Export handles POST /api/export: it writes a text bundle to a
// user-chosen path, independent of the note store.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := transfer.Export(req.Path, req.Title, req.DateLabel, req.Content); err != nil {
		slog.Error("export failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("export failed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/import: it reads a user-chosen file for the
// draft content area. The store is not touched.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	content, err := transfer.Import(req.Path)
	if err != nil {
		slog.Error("import failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("import failed"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Content: content})
}
