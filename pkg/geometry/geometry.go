package geometry

import (
	"errors"
	"fmt"

	"github.com/bgrewell/opera-kit/pkg/consts"
)

var (
	// ErrUnknownImageFormat is returned when an image matches neither a raw CD-ROM nor an OperaFS layout.
	ErrUnknownImageFormat = errors.New("unknown image format")
	// ErrLabelNotFound is returned when no disc label sync pattern exists anywhere in the image.
	ErrLabelNotFound = errors.New("disc label not found")
)

// Layout describes how one device block of the image file is split into padding and filesystem data.
type Layout struct {
	// Header is the number of bytes preceding the data region (CD sync + address + mode).
	Header int64 `json:"header"`
	// Data is the number of filesystem data bytes carried by each device block.
	Data int64 `json:"data"`
	// Footer is the number of bytes following the data region (EDC/ECC).
	Footer int64 `json:"footer"`
}

var (
	// ISO is a plain image of 2048 byte sectors.
	ISO = Layout{Header: 0, Data: consts.ISO_SECTOR_SIZE, Footer: 0}
	// RawCD is a raw Mode 1 dump of 2352 byte sectors.
	RawCD = Layout{Header: consts.CD_HEADER_SIZE, Data: consts.CD_DATA_SIZE, Footer: consts.CD_FOOTER_SIZE}
)

// Bare returns a layout with no framing where each device block is exactly one filesystem block.
func Bare(blockSize int64) Layout {
	return Layout{Data: blockSize}
}

// DeviceBlockSize returns the physical size of one device block (header + data + footer).
func (l Layout) DeviceBlockSize() int64 {
	return l.Header + l.Data + l.Footer
}

// WithData returns a copy of the layout carrying a different data size, keeping the framing.
func (l Layout) WithData(data int64) Layout {
	l.Data = data
	return l
}

// Framed reports whether the layout carries per block padding.
func (l Layout) Framed() bool {
	return l.Header != 0 || l.Footer != 0
}

func (l Layout) String() string {
	return fmt.Sprintf("%d/%d/%d", l.Header, l.Data, l.Footer)
}

// Geometry translates between file positions (device block space) and filesystem data positions.
type Geometry struct {
	Layout
	// DataOffset is the data space position of the disc label, subtracted so that data position 0 is the label.
	DataOffset int64 `json:"data_offset"`
}

// New returns a geometry for the given layout with its data origin at data space position dataOffset.
func New(layout Layout, dataOffset int64) Geometry {
	return Geometry{Layout: layout, DataOffset: dataOffset}
}

// FileToData converts a file position into a data space position. Positions inside the header or footer padding
// have no meaningful data position.
func (g Geometry) FileToData(filePos int64) int64 {
	s := g.DeviceBlockSize()
	block := filePos / s
	extra := filePos % s
	return block*g.Data + (extra - g.Header) - g.DataOffset
}

// DataToFile converts a data space position into the file position holding that byte.
func (g Geometry) DataToFile(dataPos int64) int64 {
	p := dataPos + g.DataOffset
	block := p / g.Data
	extra := p % g.Data
	return block*g.DeviceBlockSize() + g.Header + extra
}

// BlockToFile returns the file position of the first data byte of filesystem block n.
func (g Geometry) BlockToFile(n int64) int64 {
	return g.DataToFile(n * g.Data)
}

// DataRemaining returns how many data bytes remain in the device block holding dataPos, including dataPos itself.
func (g Geometry) DataRemaining(dataPos int64) int64 {
	return g.Data - (dataPos+g.DataOffset)%g.Data
}

// DeviceBlockCount returns how many whole device blocks fit in an image of the given size.
func (g Geometry) DeviceBlockCount(size int64) int64 {
	s := g.DeviceBlockSize()
	if s <= 0 {
		return 0
	}
	return size / s
}
