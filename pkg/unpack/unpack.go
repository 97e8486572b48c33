// Package unpack extracts the files of an OperaFS volume to a host directory.
package unpack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/opera-kit/pkg/stats"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/validation"
	"github.com/bgrewell/opera-kit/pkg/walker"
)

// ErrTruncated marks a file cut short by an image read error.
var ErrTruncated = errors.New("file truncated")

// Callback is invoked around every record. After receives the error that ended the record, if any. Either func may
// be nil.
type Callback struct {
	Before func(path string, rec *directory.Record)
	After  func(path string, rec *directory.Record, err error)
}

type Option func(*Unpacker)

func WithCallback(cb Callback) Option {
	return func(u *Unpacker) {
		u.cb = cb
	}
}

// WithExtractionProgress reports the bytes written after every block copied.
func WithExtractionProgress(progress option.ExtractionProgressCallback) Option {
	return func(u *Unpacker) {
		u.progress = progress
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(u *Unpacker) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// Unpacker is a walker.Visitor writing every directory and file it is shown below a destination directory.
type Unpacker struct {
	dst        string
	cb         Callback
	progress   option.ExtractionProgressCallback
	logger     *logging.Logger
	fileNumber int
	fileTotal  int
	// dirs maps the walk path of every directory extracted so far to its host path.
	dirs map[string]string
	// taken holds every host path created by this run.
	taken map[string]bool
}

func New(dst string, opts ...Option) *Unpacker {
	u := &Unpacker{
		dst:    dst,
		logger: logging.DefaultLogger(),
		dirs:   map[string]string{"": dst},
		taken:  map[string]bool{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Unpack creates the destination directory and extracts everything w walks into it. When progress reporting is
// enabled the volume is walked twice, once to count the files.
func (u *Unpacker) Unpack(w *walker.Walker) error {
	if err := os.MkdirAll(u.dst, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output location %s: %w", u.dst, err)
	}
	if u.progress != nil {
		c, err := stats.Collect(w)
		if err != nil {
			return err
		}
		u.fileTotal = int(c.FileCount)
	}
	u.fileNumber = 0
	u.dirs = map[string]string{"": u.dst}
	u.taken = map[string]bool{}
	return w.Walk(u)
}

func (u *Unpacker) OnDirectoryHeader(string, *directory.Header, *stream.Stream) error {
	return nil
}

// OnDirectoryRecord extracts rec. Image read errors leave a truncated file and are only reported to the After
// callback; failures writing to the host abort the walk.
func (u *Unpacker) OnDirectoryRecord(path string, rec *directory.Record, s *stream.Stream) error {
	if u.cb.Before != nil {
		u.cb.Before(path, rec)
	}
	err := u.extract(path, rec, s)
	if u.cb.After != nil {
		u.cb.After(path, rec, err)
	}
	if errors.Is(err, ErrTruncated) {
		u.logger.Debug("file truncated", "path", path, "error", err.Error())
		return nil
	}
	return err
}

func (u *Unpacker) extract(path string, rec *directory.Record, s *stream.Stream) error {
	parent, ok := u.dirs[strings.TrimSuffix(strings.TrimSuffix(path, rec.Name()), "/")]
	if !ok {
		parent = u.dst
	}
	fullPath, err := validation.SafeJoin(parent, rec.Name())
	if err != nil {
		return err
	}
	if !validation.ValidFilename(rec.Name()) {
		u.logger.Debug("name sanitized", "path", path, "host_path", fullPath)
	}
	if u.taken[fullPath] {
		renamed := uniquePath(fullPath, u.taken)
		u.logger.Info("host name already extracted, renaming", "path", path, "host_path", renamed)
		fullPath = renamed
	}
	u.taken[fullPath] = true

	if rec.IsDirectory() {
		u.logger.Trace("creating directory", "path", fullPath)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
		}
		u.dirs[path] = fullPath
		return nil
	}

	u.fileNumber++
	outFile, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer outFile.Close()

	blockSize := int64(rec.BlockSize)
	if blockSize == 0 {
		blockSize = s.DataBlockSize()
	}
	size := int64(rec.ByteCount)
	left := size
	out := &hostWriter{w: outFile}
	u.report(path, 0, size)

	for i := int64(0); i < int64(rec.BlockCount) && left > 0; i++ {
		if err := s.DataBlockSeek(int64(rec.Avatar()) + i); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrTruncated, path, err)
		}
		n, err := io.CopyN(out, s, min(blockSize, left))
		left -= n
		if out.err != nil {
			return fmt.Errorf("failed to write to file %s: %w", fullPath, out.err)
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrTruncated, path, err)
		}
		u.report(path, size-left, size)
	}
	return nil
}

// uniquePath inserts the smallest ~N suffix before the extension of p that gives a path not in taken.
func uniquePath(p string, taken map[string]bool) string {
	ext := filepath.Ext(p)
	base := strings.TrimSuffix(p, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s~%d%s", base, n, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}

// hostWriter remembers write failures so they can be told apart from image read failures.
type hostWriter struct {
	w   io.Writer
	err error
}

func (h *hostWriter) Write(p []byte) (int, error) {
	n, err := h.w.Write(p)
	if err != nil {
		h.err = err
	}
	return n, err
}

func (u *Unpacker) report(path string, written, total int64) {
	if u.progress == nil {
		return
	}
	u.progress(path, written, total, u.fileNumber, u.fileTotal)
}
