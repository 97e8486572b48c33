// Package walker traverses the directory structures of an OperaFS volume, reporting every directory header and
// record to a Visitor.
package walker

import (
	"errors"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/linkedmem"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/bgrewell/opera-kit/pkg/stream"
)

// ErrNotSetup is returned when walking a stream whose label has not been decoded.
var ErrNotSetup = errors.New("stream has no disc label, call Setup first")

type Option func(*Walker)

func WithLogger(logger *logging.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithROMTags patches the byte count of file records matching one of tags before they are visited.
func WithROMTags(tags []romtag.ROMTag) Option {
	return func(w *Walker) {
		w.tags = tags
	}
}

// WithMaxDepth bounds directory recursion. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// Walker walks the directory tree of a stream that has been set up.
type Walker struct {
	s        *stream.Stream
	label    *label.DiscLabel
	tags     []romtag.ROMTag
	maxDepth int
	logger   *logging.Logger
}

func New(s *stream.Stream, opts ...Option) *Walker {
	w := &Walker{
		s:        s,
		label:    s.Label(),
		maxDepth: consts.WALKER_MAX_DEPTH,
		logger:   logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk visits the whole volume. Volumes of an unknown structure version are walked as empty. Damaged structures end
// the branch they were found in; only visitor errors are returned.
func (w *Walker) Walk(v Visitor) error {
	if w.label == nil {
		return ErrNotSetup
	}
	restore := w.s.Save()
	defer restore()

	switch w.label.StructureVersion {
	case consts.OPERA_VOLUME_STRUCTURE_READONLY:
		return w.walkDirectory(v, "",
			w.label.RootAvatar(),
			w.label.RootDirectoryBlockSize,
			w.label.RootDirectoryBlockCount,
			0)
	case consts.OPERA_VOLUME_STRUCTURE_LINKED_MEM:
		return w.walkLinkedMem(v)
	default:
		w.logger.Debug("unsupported volume structure version, nothing to walk", "version", w.label.StructureVersion)
		return nil
	}
}

// walkDirectory walks the blockCount blocks of a directory starting at data block first.
func (w *Walker) walkDirectory(v Visitor, dir string, first, blockSize, blockCount uint32, depth int) error {
	if blockSize == 0 {
		blockSize = w.label.BlockSize
	}
	pos := int64(first) * int64(w.label.BlockSize)
	for i := uint32(0); i < blockCount; i++ {
		done, err := w.walkBlock(v, dir, pos, int64(blockSize), depth)
		if err != nil {
			return err
		}
		if done {
			break
		}
		pos += int64(blockSize)
	}
	return nil
}

// walkBlock visits the header and records of the directory block at data position pos. done reports that the
// directory is finished, either by a last in directory record or by a decode failure.
func (w *Walker) walkBlock(v Visitor, dir string, pos, blockSize int64, depth int) (done bool, err error) {
	log := w.logger.WithValues("path", dir, "position", pos)

	if err := w.s.DataByteSeek(pos); err != nil {
		log.Debug("directory block out of range", "error", err.Error())
		return true, nil
	}
	h, err := directory.ReadHeader(w.s)
	if err != nil {
		log.Debug("failed to decode directory header", "error", err.Error())
		return true, nil
	}
	log.Trace("directory header", "next", h.NextBlock, "prev", h.PrevBlock,
		"first_free_byte", h.FirstFreeByte, "first_entry_offset", h.FirstEntryOffset)
	if err := w.visitHeader(v, dir, h); err != nil {
		return true, err
	}
	if !h.HasEntries() {
		return false, nil
	}

	end := pos + blockSize
	if h.FirstFreeByte > 0 && pos+int64(h.FirstFreeByte) < end {
		end = pos + int64(h.FirstFreeByte)
	}

	cur := pos + int64(h.FirstEntryOffset)
	for cur < end {
		if err := w.s.DataByteSeek(cur); err != nil {
			log.Debug("directory record out of range", "error", err.Error())
			return true, nil
		}
		rec, err := directory.ReadRecord(w.s)
		if err != nil {
			log.Debug("failed to decode directory record", "offset", cur-pos, "error", err.Error())
			return true, nil
		}
		cur += int64(rec.Size())

		path := Join(dir, rec.Name())
		if !rec.IsDirectory() && len(w.tags) > 0 && romtag.Patch(rec, w.tags) {
			log.Trace("byte count taken from rom tag", "name", rec.Name(), "byte_count", rec.ByteCount)
		}
		if err := w.visitRecord(v, path, rec); err != nil {
			return true, err
		}

		if rec.IsDirectory() {
			if depth+1 > w.maxDepth {
				log.Debug("maximum directory depth reached, not descending", "name", rec.Name(), "depth", depth+1)
			} else if err := w.descend(v, path, rec, depth+1); err != nil {
				return true, err
			}
		}

		if rec.LastInDir() {
			return true, nil
		}
		if rec.LastInBlock() {
			return false, nil
		}
	}
	return false, nil
}

func (w *Walker) descend(v Visitor, path string, rec *directory.Record, depth int) error {
	restore := w.s.Save()
	defer restore()
	return w.walkDirectory(v, path, rec.Avatar(), rec.BlockSize, rec.BlockCount, depth)
}

// walkLinkedMem follows the forward links of a linked memory volume from the root block, visiting every file block.
// The list ends when a link stops moving forward.
func (w *Walker) walkLinkedMem(v Visitor) error {
	bs := int64(w.label.BlockSize)
	cur := int64(w.label.RootAvatar())
	for {
		log := w.logger.WithValues("block", cur)
		if err := w.s.DataByteSeek(cur * bs); err != nil {
			log.Debug("linked memory block out of range", "error", err.Error())
			return nil
		}
		e, err := linkedmem.Read(w.s)
		if err != nil {
			log.Debug("failed to decode linked memory entry", "error", err.Error())
			return nil
		}
		if e.IsFile() {
			rec := e.Record(uint32(cur), w.label.BlockSize)
			if len(w.tags) > 0 {
				romtag.Patch(rec, w.tags)
			}
			if err := w.visitRecord(v, rec.Name(), rec); err != nil {
				return err
			}
		} else {
			log.Trace("skipping linked memory block", "fingerprint", e.Fingerprint)
		}

		next := int64(e.FlinkOffset)
		if next <= cur {
			return nil
		}
		cur = next
	}
}

func (w *Walker) visitHeader(v Visitor, path string, h *directory.Header) error {
	restore := w.s.Save()
	defer restore()
	return v.OnDirectoryHeader(path, h, w.s)
}

func (w *Walker) visitRecord(v Visitor, path string, rec *directory.Record) error {
	restore := w.s.Save()
	defer restore()
	return v.OnDirectoryRecord(path, rec, w.s)
}
