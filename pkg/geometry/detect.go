package geometry

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
)

const scanChunkSize = 64 * 1024

// LabelSignature is the disc label record type followed by the volume sync bytes.
var LabelSignature = []byte{
	consts.OPERA_RECORD_TYPE_LABEL,
	consts.OPERA_SYNC_BYTE, consts.OPERA_SYNC_BYTE, consts.OPERA_SYNC_BYTE, consts.OPERA_SYNC_BYTE, consts.OPERA_SYNC_BYTE,
}

// IsMode1 reports whether sector begins with the CD-ROM sync pattern and a Mode 1 mode byte.
func IsMode1(sector []byte) bool {
	if len(sector) < consts.CD_HEADER_SIZE {
		return false
	}
	return bytes.Equal(sector[:consts.CD_SYNC_SIZE], consts.CD_MODE1_SYNC[:]) &&
		sector[consts.CD_MODE_OFFSET] == consts.CD_MODE1
}

// HasLabelSignature reports whether data begins with an OperaFS disc label signature.
func HasLabelSignature(data []byte) bool {
	return bytes.HasPrefix(data, LabelSignature)
}

// Detect sniffs the first sector of the image and returns its layout. A raw CD-ROM sync pattern selects RawCD, a
// label at byte 0 selects ISO. Anything else yields ErrUnknownImageFormat.
func Detect(r io.ReaderAt) (Layout, error) {
	buf := make([]byte, consts.CD_HEADER_SIZE)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, fmt.Errorf("failed to read first sector: %w", err)
	}
	buf = buf[:n]

	switch {
	case IsMode1(buf):
		return RawCD, nil
	case HasLabelSignature(buf):
		return ISO, nil
	default:
		return Layout{}, ErrUnknownImageFormat
	}
}

// FindLabel scans the image byte by byte for the disc label signature and returns the file position of the first
// match. The scan reads overlapping chunks so a signature straddling a chunk boundary is still found.
func FindLabel(r io.ReaderAt, size int64) (int64, error) {
	overlap := int64(len(LabelSignature) - 1)
	buf := make([]byte, scanChunkSize+overlap)

	for pos := int64(0); pos < size; pos += scanChunkSize {
		want := int64(len(buf))
		if pos+want > size {
			want = size - pos
		}
		n, err := r.ReadAt(buf[:want], pos)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("failed to scan for disc label at %d: %w", pos, err)
		}
		if i := bytes.Index(buf[:n], LabelSignature); i >= 0 {
			return pos + int64(i), nil
		}
		if n < len(LabelSignature) {
			break
		}
	}

	return 0, ErrLabelNotFound
}
