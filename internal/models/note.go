// Package models defines the domain types for jotdesk.
package models

import (
	"fmt"
	"time"
)

// TimestampFormat is the layout used whenever a note timestamp is shown
// to the user.
const TimestampFormat = "2006-01-02 15:04:05"

// Note represents one user-authored text record in the notes directory.
// Title doubles as the persistence key: the note is stored as <Title>.txt,
// and the file body is exactly Content. Timestamps are not persisted in the
// file; on reload both are inferred from filesystem metadata.
type Note struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatTimestamp renders t in the display layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// DisplayDates renders both timestamps as a single status-bar label,
// e.g. "Created: 2025-01-20 09:30:00 | Last Modified: 2025-01-21 18:02:11".
func (n Note) DisplayDates() string {
	return fmt.Sprintf("Created: %s | Last Modified: %s",
		FormatTimestamp(n.CreatedAt), FormatTimestamp(n.UpdatedAt))
}
