// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes jotdesk note tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mirekh/jotdesk/internal/apperr"
	"github.com/mirekh/jotdesk/internal/notestore"
)

// Server wraps the MCP server with jotdesk tools.
type Server struct {
	mcp   *server.MCPServer
	store *notestore.Store
}

// New creates a new MCP server with all jotdesk tools registered.
func New(store *notestore.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"jotdesk",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the titles of all notes in collection order."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note by title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Save a note. If a note with this title already exists "+
			"it is replaced in place; otherwise a new note is appended. Notes are "+
			"plain text; read the jotdesk://note-format resource for details."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note (used as the filename)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Plain-text body of the note")),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by title."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the note to delete")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Case-insensitive substring search over note titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	// Resource: note format description.
	s.mcp.AddResource(
		mcp.NewResource("jotdesk://note-format", "Note Format",
			mcp.WithResourceDescription("How jotdesk notes are stored and addressed."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var titles []string
	for _, n := range s.store.Notes() {
		titles = append(titles, n.Title)
	}
	return mcp.NewToolResultText(strings.Join(titles, "\n")), nil
}

func (s *Server) readNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx := s.store.IndexByTitle(title)
	if idx < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", title)), nil
	}
	note, _ := s.store.Get(idx)
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Replace in place when the title already exists, append otherwise.
	note, _, err := s.store.Save(title, content, s.store.IndexByTitle(title))
	if err != nil {
		if apperr.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", note.Title)), nil
}

func (s *Server) deleteNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx := s.store.IndexByTitle(title)
	if idx < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", title)), nil
	}
	s.store.Delete(idx)
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", title)), nil
}

func (s *Server) searchNotes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.store.Search(query)
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "jotdesk://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormat,
		},
	}, nil
}
