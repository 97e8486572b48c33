// Package stats aggregates file counts and sizes over a walk.
package stats

import (
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/walker"
)

// Collector is a walker.Visitor counting the files of a volume and summing their byte counts. Directories are
// counted separately and do not contribute to TotalDataSize.
type Collector struct {
	FileCount      uint32 `json:"file_count" yaml:"file_count"`
	DirectoryCount uint32 `json:"directory_count" yaml:"directory_count"`
	TotalDataSize  uint64 `json:"total_data_size" yaml:"total_data_size"`
}

func (c *Collector) OnDirectoryHeader(string, *directory.Header, *stream.Stream) error {
	return nil
}

func (c *Collector) OnDirectoryRecord(_ string, rec *directory.Record, _ *stream.Stream) error {
	if rec.IsDirectory() {
		c.DirectoryCount++
		return nil
	}
	c.FileCount++
	c.TotalDataSize += uint64(rec.ByteCount)
	return nil
}

// Collect walks w once and returns the totals.
func Collect(w *walker.Walker) (*Collector, error) {
	c := &Collector{}
	if err := w.Walk(c); err != nil {
		return nil, err
	}
	return c, nil
}
