package opera

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/helpers"
	"github.com/bgrewell/opera-kit/pkg/identify"
	"github.com/bgrewell/opera-kit/pkg/info"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/bgrewell/opera-kit/pkg/stats"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/unpack"
	"github.com/bgrewell/opera-kit/pkg/walker"
)

// ISOProgressCallback is called after every sector WriteISO copies. sector counts from zero.
type ISOProgressCallback func(sector int64, total int64)

// Open opens an existing OperaFS disc image file.
func Open(location string, opts ...option.OpenOption) (*Image, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	img, err := OpenReader(f, st.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	img.closer = f
	img.location = location
	return img, nil
}

// OpenReader opens an image of the given size read through r.
func OpenReader(r io.ReaderAt, size int64, opts ...option.OpenOption) (*Image, error) {
	options := option.Apply(opts...)

	streamOpts := []stream.Option{stream.WithLogger(options.Logger)}
	if options.Layout != nil {
		streamOpts = append(streamOpts, stream.WithLayout(*options.Layout))
	}
	s := stream.New(r, size, streamOpts...)
	if err := s.Setup(); err != nil {
		return nil, err
	}
	options.Logger.Debug("opened image",
		"volume", s.Label().VolumeIdentifier(),
		"layout", s.Geometry().Layout.String(),
		"structure_version", s.Label().StructureVersion)

	return &Image{stream: s, options: options}, nil
}

// Image is an open OperaFS disc image. An Image is not safe for concurrent use: all operations share one cursor.
type Image struct {
	location string
	closer   io.Closer
	stream   *stream.Stream
	options  *option.OpenOptions

	tags     []romtag.ROMTag
	tagsErr  error
	tagsRead bool
}

func (i *Image) Label() *label.DiscLabel {
	return i.stream.Label()
}

func (i *Image) Geometry() geometry.Geometry {
	return i.stream.Geometry()
}

// Stream returns the cursor every operation of the image reads through.
func (i *Image) Stream() *stream.Stream {
	return i.stream
}

// Location returns the path the image was opened from, empty for OpenReader.
func (i *Image) Location() string {
	return i.location
}

// IsROMFS reports whether the image is a ROM filesystem image.
func (i *Image) IsROMFS() bool {
	return i.stream.IsROMFS()
}

// ROMTags returns the ROM tag table, read on first use.
func (i *Image) ROMTags() ([]romtag.ROMTag, error) {
	if !i.tagsRead {
		i.tags, i.tagsErr = romtag.Scan(i.stream, i.Label())
		i.tagsRead = true
	}
	return i.tags, i.tagsErr
}

// HasROMTags reports whether the image carries at least one ROM tag.
func (i *Image) HasROMTags() bool {
	tags, _ := i.ROMTags()
	return len(tags) > 0
}

// Walker returns a walker configured from the open options.
func (i *Image) Walker() *walker.Walker {
	opts := []walker.Option{
		walker.WithLogger(i.options.Logger),
		walker.WithMaxDepth(i.options.MaxDepth),
	}
	if i.options.PatchROMTags {
		tags, err := i.ROMTags()
		if err != nil {
			i.options.Logger.Debug("rom tag table unreadable, byte counts left unpatched", "error", err.Error())
		}
		opts = append(opts, walker.WithROMTags(tags))
	}
	return walker.New(i.stream, opts...)
}

// Walk walks the directory tree with v.
func (i *Image) Walk(v walker.Visitor) error {
	return i.Walker().Walk(v)
}

// Stats counts the files of the image.
func (i *Image) Stats() (*stats.Collector, error) {
	return stats.Collect(i.Walker())
}

// Records lists every directory and file whose path starts with the components of prefix, in walk order.
func (i *Image) Records(prefix string) ([]directory.Entry, error) {
	var entries []directory.Entry
	err := i.Walk(walker.Funcs{
		Record: func(path string, rec *directory.Record, _ *stream.Stream) error {
			if helpers.HasPathPrefix(path, prefix) {
				entries = append(entries, directory.Entry{Path: path, Record: rec})
			}
			return nil
		},
	})
	return entries, err
}

// Unpack extracts every file of the image below dst.
func (i *Image) Unpack(dst string, cb unpack.Callback) error {
	u := unpack.New(dst,
		unpack.WithCallback(cb),
		unpack.WithExtractionProgress(i.options.ExtractionProgressCallback),
		unpack.WithLogger(i.options.Logger))
	return u.Unpack(i.Walker())
}

// Identify looks the image up in sigs.
func (i *Image) Identify(sigs identify.Signatures) (*identify.Result, error) {
	return identify.New(sigs, identify.WithLogger(i.options.Logger)).Identify(i.stream)
}

// Layout describes where the filesystem structures sit in the image file.
func (i *Image) Layout() (*info.OperaLayout, error) {
	tags, err := i.ROMTags()
	if err != nil {
		i.options.Logger.Debug("rom tag table unreadable", "error", err.Error())
	}
	return info.Build(i.stream, tags, walker.WithMaxDepth(i.options.MaxDepth), walker.WithLogger(i.options.Logger))
}

// WriteISO writes the data region of every device block to w, producing a plain 2048 byte sector image from a raw
// one. A trailing partial device block is dropped.
func (i *Image) WriteISO(w io.Writer, progress ISOProgressCallback) error {
	total := i.stream.DeviceBlockCount()
	buf := make([]byte, i.stream.DataBlockSize())
	for n := int64(0); n < total; n++ {
		if _, err := i.stream.ReadDeviceBlockData(n, buf); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read sector %d: %w", n, err)
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write sector %d: %w", n, err)
		}
		if progress != nil {
			progress(n, total)
		}
	}
	return nil
}

// Close releases the image file. Images opened with OpenReader leave the reader to the caller.
func (i *Image) Close() error {
	if i.closer == nil {
		return nil
	}
	err := i.closer.Close()
	i.closer = nil
	return err
}

func (i *Image) String() string {
	return fmt.Sprintf("%s (%s, %d device blocks)", i.Label().VolumeIdentifier(), i.Geometry().Layout, i.stream.DeviceBlockCount())
}
