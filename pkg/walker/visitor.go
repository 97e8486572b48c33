package walker

import (
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/stream"
)

// Visitor receives the events of a walk. The stream is positioned just past the decoded structure and may be moved
// freely; the walker restores the cursor when the callback returns. Returning an error aborts the walk.
type Visitor interface {
	OnDirectoryHeader(path string, h *directory.Header, s *stream.Stream) error
	OnDirectoryRecord(path string, r *directory.Record, s *stream.Stream) error
}

// Funcs adapts plain functions to a Visitor. Nil fields ignore their event.
type Funcs struct {
	Header func(path string, h *directory.Header, s *stream.Stream) error
	Record func(path string, r *directory.Record, s *stream.Stream) error
}

func (f Funcs) OnDirectoryHeader(path string, h *directory.Header, s *stream.Stream) error {
	if f.Header == nil {
		return nil
	}
	return f.Header(path, h, s)
}

func (f Funcs) OnDirectoryRecord(path string, r *directory.Record, s *stream.Stream) error {
	if f.Record == nil {
		return nil
	}
	return f.Record(path, r, s)
}

// Join appends name to a walk path. The root directory is the empty path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
