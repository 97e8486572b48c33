package directory

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/encoding"
)

// DIRECTORY_HEADER_SIZE is the on-disc size of a directory block header.
const DIRECTORY_HEADER_SIZE = 20

// Header precedes the entries of every directory block.
type Header struct {
	// NextBlock links to the next block of the directory, -1 when none.
	NextBlock int32 `json:"next_block"`
	// PrevBlock links to the previous block of the directory, -1 when none.
	PrevBlock int32 `json:"prev_block"`
	// Flags is unused by the readers seen in the wild.
	Flags uint32 `json:"flags"`
	// FirstFreeByte is the offset, relative to the header, of the end of used space in this block.
	FirstFreeByte uint32 `json:"first_free_byte"`
	// FirstEntryOffset is the offset, relative to the header, of the first record. -1 means the block is empty.
	FirstEntryOffset int32 `json:"first_entry_offset"`
}

// HasEntries reports whether the block holds at least one record.
func (h *Header) HasEntries() bool {
	return h.FirstEntryOffset != consts.OPERA_DIRECTORY_NO_ENTRIES
}

// ReadHeader decodes a directory header from r.
func ReadHeader(r io.Reader) (*Header, error) {
	var h Header
	er := encoding.NewReader(r)
	var err error
	if h.NextBlock, err = er.Int32("next_block"); err != nil {
		return nil, err
	}
	if h.PrevBlock, err = er.Int32("prev_block"); err != nil {
		return nil, err
	}
	if h.Flags, err = er.Uint32("flags"); err != nil {
		return nil, err
	}
	if h.FirstFreeByte, err = er.Uint32("first_free_byte"); err != nil {
		return nil, err
	}
	if h.FirstEntryOffset, err = er.Int32("first_entry_offset"); err != nil {
		return nil, err
	}
	return &h, nil
}

// Unmarshal decodes the header from a fixed size buffer.
func (h *Header) Unmarshal(data [DIRECTORY_HEADER_SIZE]byte) error {
	decoded, err := ReadHeader(bytes.NewReader(data[:]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal directory header: %w", err)
	}
	*h = *decoded
	return nil
}

// Marshal encodes the header in its on-disc layout.
func (h *Header) Marshal() [DIRECTORY_HEADER_SIZE]byte {
	var out [DIRECTORY_HEADER_SIZE]byte
	buf := out[:0]
	buf = encoding.PutUint32(buf, uint32(h.NextBlock))
	buf = encoding.PutUint32(buf, uint32(h.PrevBlock))
	buf = encoding.PutUint32(buf, h.Flags)
	buf = encoding.PutUint32(buf, h.FirstFreeByte)
	encoding.PutUint32(buf, uint32(h.FirstEntryOffset))
	return out
}
