// Package identify matches a disc image against a table of known disc signatures.
package identify

import (
	"errors"
	"fmt"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/stats"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/walker"
)

// ErrNoSignatures is returned when identifying without a signature table.
var ErrNoSignatures = errors.New("no disc signatures loaded")

// PARTIAL_MATCH_FIELDS is the number of equal signature fields that makes a partial match.
const PARTIAL_MATCH_FIELDS = 4

// Result is the outcome of identifying one image.
type Result struct {
	ID             ID     `json:"id" yaml:"id"`
	FullMatches    []ID   `json:"full_matches" yaml:"full_matches"`
	PartialMatches []ID   `json:"partial_matches" yaml:"partial_matches"`
	ImageExtension string `json:"image_extension" yaml:"image_extension"`
}

// Matched reports whether any entry matched, fully or partially.
func (r *Result) Matched() bool {
	return len(r.FullMatches) > 0 || len(r.PartialMatches) > 0
}

type Option func(*Identifier)

func WithLogger(logger *logging.Logger) Option {
	return func(i *Identifier) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Identifier looks images up in a signature table.
type Identifier struct {
	sigs   Signatures
	logger *logging.Logger
}

func New(sigs Signatures, opts ...Option) *Identifier {
	i := &Identifier{sigs: sigs, logger: logging.DefaultLogger()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Signature walks the volume behind s and returns its signature.
func Signature(s *stream.Stream) (ID, error) {
	lbl := s.Label()
	if lbl == nil {
		return ID{}, walker.ErrNotSetup
	}
	c, err := stats.Collect(walker.New(s))
	if err != nil {
		return ID{}, fmt.Errorf("failed to collect filesystem stats: %w", err)
	}
	return ID{
		VolumeID:         lbl.VolumeIdentifier(),
		VolumeUniqueID:   lbl.UniqueIdentifier,
		VolumeBlockCount: lbl.BlockCount,
		RootUniqueID:     lbl.RootUniqueIdentifier,
		FileCount:        c.FileCount,
		TotalDataSize:    c.TotalDataSize,
	}, nil
}

// Identify computes the signature of the image behind s and collects every full match, then every partial match
// that is not also a full match.
func (i *Identifier) Identify(s *stream.Stream) (*Result, error) {
	if i.sigs == nil || i.sigs.Len() == 0 {
		return nil, ErrNoSignatures
	}
	id, err := Signature(s)
	if err != nil {
		return nil, err
	}
	res := i.Match(id)
	res.ImageExtension = ImageExtension(s.Geometry().Layout)
	i.logger.Debug("identified image",
		"volume", id.VolumeID,
		"full_matches", len(res.FullMatches),
		"partial_matches", len(res.PartialMatches))
	return res, nil
}

// Match looks id up in the signature table.
func (i *Identifier) Match(id ID) *Result {
	res := &Result{ID: id}
	full := map[int]bool{}
	for at := i.sigs.FindNext(id, -1); at >= 0; at = i.sigs.FindNext(id, at) {
		full[at] = true
		res.FullMatches = append(res.FullMatches, i.sigs.At(at))
	}
	for at := 0; at < i.sigs.Len(); at++ {
		if full[at] {
			continue
		}
		if candidate := i.sigs.At(at); candidate.MatchingFields(id) >= PARTIAL_MATCH_FIELDS {
			res.PartialMatches = append(res.PartialMatches, candidate)
		}
	}
	return res
}

// ImageExtension returns the conventional file extension for an image with the given layout.
func ImageExtension(l geometry.Layout) string {
	switch {
	case l.DeviceBlockSize() == consts.ISO_SECTOR_SIZE && l.Header == 0:
		return consts.ISO_EXTENSION
	case l.DeviceBlockSize() == consts.CD_SECTOR_SIZE && l.Header == consts.CD_HEADER_SIZE:
		return consts.BIN_EXTENSION
	case l.DeviceBlockSize() == 4 && l.Header == 0:
		return consts.BIN_EXTENSION
	default:
		return consts.UNKNOWN_EXTENSION
	}
}
