package directory

import (
	"io/fs"
	"time"
)

// Ensure that Entry implements the fs.FileInfo interface.
var _ fs.FileInfo = Entry{}

// Entry is an fs.FileInfo compatible wrapper around a Record and the path it was found at.
type Entry struct {
	// Path is the slash separated path of the entry relative to the root directory.
	Path   string  `json:"path"`
	Record *Record `json:"record"`
}

// Name returns the record's own name, which may itself contain slashes.
func (e Entry) Name() string {
	return e.Record.Name()
}

// Size returns the logical byte count of the entry.
func (e Entry) Size() int64 {
	return int64(e.Record.ByteCount)
}

// Mode returns the permission bits implied by the record flags.
func (e Entry) Mode() fs.FileMode {
	mode := fs.FileMode(0o644)
	if e.Record.IsReadOnly() {
		mode = 0o444
	}
	if e.IsDir() {
		mode |= fs.ModeDir | 0o111
	}
	return mode
}

// ModTime always returns the zero time, OperaFS does not record timestamps.
func (e Entry) ModTime() time.Time {
	return time.Time{}
}

// IsDir returns true if the entry represents a directory.
func (e Entry) IsDir() bool {
	return e.Record.IsDirectory()
}

// Sys returns the underlying Record.
func (e Entry) Sys() any {
	return e.Record
}
