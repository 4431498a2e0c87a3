package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mirekh/jotdesk/internal/notestore"
	"github.com/mirekh/jotdesk/internal/testutil"
)

func testServer(t *testing.T) (*Server, *notestore.Store) {
	t.Helper()
	_, store := testutil.TestStore(t)
	return New(store), store
}

// callTool invokes a tool handler directly, since mcp-go does not expose a
// call-by-name test helper.
func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "save_note":
		result, err = srv.saveNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndListNotes(t *testing.T) {
	srv, store := testServer(t)

	res := callTool(t, srv, "save_note", map[string]interface{}{
		"title":   "Groceries",
		"content": "milk, eggs",
	})
	if res.IsError {
		t.Fatalf("save_note failed: %s", resultText(res))
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}

	res = callTool(t, srv, "list_notes", nil)
	if !strings.Contains(resultText(res), "Groceries") {
		t.Errorf("list output = %q", resultText(res))
	}
}

func TestSaveNoteReplacesByTitle(t *testing.T) {
	srv, store := testServer(t)

	callTool(t, srv, "save_note", map[string]interface{}{"title": "Journal", "content": "day one"})
	callTool(t, srv, "save_note", map[string]interface{}{"title": "Journal", "content": "day two"})

	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1 (replace, not append)", store.Len())
	}
	note, _ := store.Get(0)
	if note.Content != "day two" {
		t.Errorf("content = %q", note.Content)
	}
}

func TestSaveNoteRejectsBadTitle(t *testing.T) {
	srv, store := testServer(t)

	res := callTool(t, srv, "save_note", map[string]interface{}{"title": "a/b", "content": "x"})
	if !res.IsError {
		t.Fatal("expected error result for invalid title")
	}
	if store.Len() != 0 {
		t.Errorf("store mutated: len = %d", store.Len())
	}
}

func TestReadNote(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "save_note", map[string]interface{}{"title": "A", "content": "alpha"})

	res := callTool(t, srv, "read_note", map[string]interface{}{"title": "A"})
	if res.IsError {
		t.Fatalf("read_note failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "alpha") {
		t.Errorf("read output = %q", resultText(res))
	}

	res = callTool(t, srv, "read_note", map[string]interface{}{"title": "missing"})
	if !res.IsError {
		t.Error("expected error for unknown title")
	}
}

func TestDeleteNoteByTitle(t *testing.T) {
	srv, store := testServer(t)
	callTool(t, srv, "save_note", map[string]interface{}{"title": "Doomed", "content": "x"})

	res := callTool(t, srv, "delete_note", map[string]interface{}{"title": "Doomed"})
	if res.IsError {
		t.Fatalf("delete_note failed: %s", resultText(res))
	}
	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}

	res = callTool(t, srv, "delete_note", map[string]interface{}{"title": "Doomed"})
	if !res.IsError {
		t.Error("expected error deleting a missing note")
	}
}

func TestSearchNotes(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "save_note", map[string]interface{}{"title": "A", "content": "alpha"})
	callTool(t, srv, "save_note", map[string]interface{}{"title": "B", "content": "beta contains keyword"})

	res := callTool(t, srv, "search_notes", map[string]interface{}{"query": "BETA"})
	out := resultText(res)
	if !strings.Contains(out, `"B"`) || strings.Contains(out, `"title": "A"`) {
		t.Errorf("search output = %q", out)
	}
}
