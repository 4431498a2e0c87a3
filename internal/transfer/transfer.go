// Package transfer implements the export and import paths: moving note text
// between the editor and arbitrary user-chosen files, independent of the
// note store's own persistence format.
package transfer

import (
	"fmt"
	"os"
	"strings"
)

// Export writes a human-readable text bundle to path. The bundle is a title
// line, a date line, a blank line, a "Content:" label, and the body. The
// inputs need not correspond to a saved note.
func Export(path, title, dateLabel, content string) error {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(dateLabel)
	b.WriteString("\n\n")
	b.WriteString("Content:\n")
	b.WriteString(content)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("transfer: export to %s: %w", path, err)
	}
	return nil
}

// Import reads the full content of the file at path as a string. The result
// is meant for the draft content area; no note is created.
func Import(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("transfer: import from %s: %w", path, err)
	}
	return string(data), nil
}
