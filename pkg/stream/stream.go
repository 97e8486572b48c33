package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/logging"
)

// Stream is a cursor over an OperaFS image that reads filesystem data bytes while hiding the device block framing.
// All Data* methods work in data space where position 0 is the disc label; File* methods work on raw image offsets.
type Stream struct {
	r        io.ReaderAt
	size     int64
	geo      geometry.Geometry
	pos      int64
	label    *label.DiscLabel
	labelPos int64
	forced   *geometry.Layout
	logger   *logging.Logger
}

type Option func(*Stream)

func WithLogger(logger *logging.Logger) Option {
	return func(s *Stream) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLayout skips layout detection and uses layout instead.
func WithLayout(layout geometry.Layout) Option {
	return func(s *Stream) {
		s.forced = &layout
	}
}

// New creates a stream over an image of the given size. Setup must be called before the data space is meaningful.
func New(r io.ReaderAt, size int64, opts ...Option) *Stream {
	s := &Stream{
		r:      r,
		size:   size,
		geo:    geometry.New(geometry.ISO, 0),
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup detects the device block layout, locates and decodes the disc label, and fixes the data geometry: the data
// size becomes the label's block size and data position 0 becomes the label.
func (s *Stream) Setup() error {
	var layout geometry.Layout
	var detectErr error
	if s.forced != nil {
		layout = *s.forced
	} else {
		layout, detectErr = geometry.Detect(s.r)
	}

	labelPos, err := geometry.FindLabel(s.r, s.size)
	if err != nil {
		if detectErr != nil {
			return fmt.Errorf("%w: %w", detectErr, err)
		}
		return err
	}
	if detectErr != nil {
		// No CD framing and no label at byte 0: a bare image with leading data before the label.
		s.logger.Debug("no known sector layout, treating image as unframed", "label_position", labelPos)
		layout = geometry.Bare(consts.ISO_SECTOR_SIZE)
	}

	s.geo = geometry.New(layout, 0)
	s.pos = labelPos
	lbl, err := label.Read(s)
	if err != nil {
		return fmt.Errorf("failed to read disc label at %d: %w", labelPos, err)
	}
	if !lbl.Valid() {
		return label.ErrInvalidLabel
	}
	if lbl.BlockSize == 0 {
		return fmt.Errorf("%w: volume block size is zero", label.ErrInvalidLabel)
	}

	s.geo = geometry.New(layout.WithData(int64(lbl.BlockSize)), 0)
	s.geo.DataOffset = s.geo.FileToData(labelPos)
	s.label = lbl
	s.labelPos = labelPos
	s.pos = labelPos

	s.logger.Debug("image geometry",
		"layout", s.geo.Layout.String(),
		"label_position", labelPos,
		"data_offset", s.geo.DataOffset,
		"device_blocks", s.DeviceBlockCount())
	return nil
}

// Label returns the disc label decoded by Setup.
func (s *Stream) Label() *label.DiscLabel {
	return s.label
}

// LabelPosition returns the file position of the disc label.
func (s *Stream) LabelPosition() int64 {
	return s.labelPos
}

// Geometry returns the active geometry.
func (s *Stream) Geometry() geometry.Geometry {
	return s.geo
}

// Size returns the image size in bytes.
func (s *Stream) Size() int64 {
	return s.size
}

func (s *Stream) DeviceBlockSize() int64 {
	return s.geo.DeviceBlockSize()
}

func (s *Stream) DeviceBlockCount() int64 {
	return s.geo.DeviceBlockCount(s.size)
}

// DataBlockSize returns the filesystem block size.
func (s *Stream) DataBlockSize() int64 {
	return s.geo.Data
}

func (s *Stream) FileTell() int64 {
	return s.pos
}

func (s *Stream) DataByteTell() int64 {
	return s.geo.FileToData(s.pos)
}

// DataByteSeek positions the cursor at data space position pos.
func (s *Stream) DataByteSeek(pos int64) error {
	if pos+s.geo.DataOffset < 0 {
		return fmt.Errorf("data position %d is before the start of the image", pos)
	}
	s.pos = s.geo.DataToFile(pos)
	return nil
}

// DataBlockSeek positions the cursor at the first byte of filesystem block n.
func (s *Stream) DataBlockSeek(n int64) error {
	if n*s.geo.Data+s.geo.DataOffset < 0 {
		return fmt.Errorf("data block %d is before the start of the image", n)
	}
	s.pos = s.geo.BlockToFile(n)
	return nil
}

// Save records the cursor and returns a func restoring it. Callers defer the returned func so the cursor is restored
// on every exit path.
func (s *Stream) Save() (restore func()) {
	saved := s.pos
	return func() {
		s.pos = saved
	}
}

// Read reads data space bytes from the cursor, stepping over the header and footer of every device block crossed.
func (s *Stream) Read(p []byte) (int, error) {
	dbs := s.geo.DeviceBlockSize()
	total := 0
	for total < len(p) {
		extra := s.pos % dbs
		switch {
		case extra < s.geo.Header:
			s.pos += s.geo.Header - extra
			continue
		case extra >= s.geo.Header+s.geo.Data:
			s.pos += dbs - extra + s.geo.Header
			continue
		}
		if s.pos >= s.size {
			return total, io.EOF
		}

		// Unframed images are contiguous in data space, framed ones are read one device block at a time.
		want := s.geo.DataRemaining(s.geo.FileToData(s.pos))
		if !s.geo.Framed() {
			want = int64(len(p) - total)
		}
		if rest := int64(len(p) - total); want > rest {
			want = rest
		}
		if end := s.size - s.pos; want > end {
			want = end
		}

		n, err := s.r.ReadAt(p[total:total+int(want)], s.pos)
		total += n
		s.pos += int64(n)
		if err != nil && !(errors.Is(err, io.EOF) && int64(n) == want) {
			return total, err
		}

		// Park the cursor on the next data byte so DataByteTell stays meaningful at block ends.
		if s.pos%dbs == s.geo.Header+s.geo.Data {
			s.pos += s.geo.Footer + s.geo.Header
		}
	}
	return total, nil
}

// ReadDeviceBlockData reads the data region of device block n into p, which must hold DataBlockSize bytes.
func (s *Stream) ReadDeviceBlockData(n int64, p []byte) (int, error) {
	off := n*s.geo.DeviceBlockSize() + s.geo.Header
	return s.r.ReadAt(p[:s.geo.Data], off)
}

// IsROMFS reports whether the image starts with the ARM no-op marking a ROM filesystem image.
func (s *Stream) IsROMFS() bool {
	var buf [4]byte
	if _, err := s.r.ReadAt(buf[:], 0); err != nil {
		return false
	}
	return bytes.Equal(buf[:], consts.ARM_NOOP[:])
}
