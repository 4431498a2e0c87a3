// Package storage defines the notes directory abstraction.
package storage

import "time"

// Entry is the listing metadata for one note file.
type Entry struct {
	// Title is the filename stem (extension stripped).
	Title string
	// ModTime is the file's last-modified time.
	ModTime time.Time
}

// Provider is the interface for note file operations. Titles are mapped 1:1
// to filenames; implementations must reject titles that cannot serve as one.
type Provider interface {
	// List returns metadata for every note file in the directory,
	// in filename order. It does not recurse into subdirectories.
	List() ([]Entry, error)
	// Read returns the raw bytes of the note file for title.
	Read(title string) ([]byte, error)
	// Write atomically writes content to the note file for title,
	// overwriting any existing file.
	Write(title string, content []byte) error
	// Delete removes the note file for title.
	Delete(title string) error
}
