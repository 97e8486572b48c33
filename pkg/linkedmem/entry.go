package linkedmem

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/encoding"
)

// Block fingerprints of the linked memory format.
const (
	FINGERPRINT_FILEBLOCK   uint32 = 0xBE4F32A6
	FINGERPRINT_FREEBLOCK   uint32 = 0x7AA565BD
	FINGERPRINT_ANCHORBLOCK uint32 = 0x855A02B6
)

const (
	// LINKED_MEM_BLOCK_SIZE is the size of the list node shared by every block kind.
	LINKED_MEM_BLOCK_SIZE = 5 * 4
	// FILE_ENTRY_SIZE is the size of a file entry including its list node.
	FILE_ENTRY_SIZE = LINKED_MEM_BLOCK_SIZE + 3*4 + consts.OPERA_FILESYSTEM_MAX_NAME_LEN
)

// Block is the doubly linked list node heading every block of a linked memory volume. Links are block offsets from
// the start of the volume.
type Block struct {
	Fingerprint      uint32 `json:"fingerprint"`
	FlinkOffset      int32  `json:"flink_offset"`
	BlinkOffset      int32  `json:"blink_offset"`
	BlockCount       int32  `json:"block_count"`
	HeaderBlockCount int32  `json:"header_block_count"`
}

// FileEntry is a Block carrying a file.
type FileEntry struct {
	Block
	ByteCount        uint32                                     `json:"byte_count"`
	UniqueIdentifier uint32                                     `json:"unique_identifier"`
	Type             uint32                                     `json:"type"`
	Filename         [consts.OPERA_FILESYSTEM_MAX_NAME_LEN]byte `json:"-"`
}

// IsFile reports whether the entry is a file block rather than free space or the anchor.
func (e *FileEntry) IsFile() bool {
	return e.Fingerprint == FINGERPRINT_FILEBLOCK
}

// Name returns the filename without its NUL padding.
func (e *FileEntry) Name() string {
	return encoding.UnmarshalString(e.Filename[:])
}

// Record synthesizes the directory record equivalent of a file entry found at block position. The single avatar
// points past the entry's header blocks at the file data.
func (e *FileEntry) Record(position uint32, blockSize uint32) *directory.Record {
	dataBlocks := e.BlockCount - e.HeaderBlockCount
	if dataBlocks < 0 {
		dataBlocks = 0
	}
	return &directory.Record{
		UniqueIdentifier: e.UniqueIdentifier,
		Type:             e.Type,
		BlockSize:        blockSize,
		ByteCount:        e.ByteCount,
		BlockCount:       uint32(dataBlocks),
		Filename:         e.Filename,
		LastAvatarIndex:  0,
		AvatarList:       []uint32{position + uint32(e.HeaderBlockCount)},
	}
}

// Read decodes a file entry from r.
func Read(r io.Reader) (*FileEntry, error) {
	var e FileEntry
	er := encoding.NewReader(r)
	var err error
	if e.Fingerprint, err = er.Uint32("fingerprint"); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		dst  *int32
	}{
		{"flink_offset", &e.FlinkOffset},
		{"blink_offset", &e.BlinkOffset},
		{"block_count", &e.BlockCount},
		{"header_block_count", &e.HeaderBlockCount},
	} {
		if *f.dst, err = er.Int32(f.name); err != nil {
			return nil, err
		}
	}
	if e.ByteCount, err = er.Uint32("byte_count"); err != nil {
		return nil, err
	}
	if e.UniqueIdentifier, err = er.Uint32("unique_identifier"); err != nil {
		return nil, err
	}
	if e.Type, err = er.Uint32("type"); err != nil {
		return nil, err
	}
	if err = er.Fixed(e.Filename[:], "filename"); err != nil {
		return nil, err
	}
	return &e, nil
}

// Unmarshal decodes the entry from a fixed size buffer.
func (e *FileEntry) Unmarshal(data [FILE_ENTRY_SIZE]byte) error {
	decoded, err := Read(bytes.NewReader(data[:]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal linked memory file entry: %w", err)
	}
	*e = *decoded
	return nil
}

// Marshal encodes the entry in its on-disc layout.
func (e *FileEntry) Marshal() [FILE_ENTRY_SIZE]byte {
	var out [FILE_ENTRY_SIZE]byte
	buf := out[:0]
	for _, v := range []uint32{
		e.Fingerprint,
		uint32(e.FlinkOffset),
		uint32(e.BlinkOffset),
		uint32(e.BlockCount),
		uint32(e.HeaderBlockCount),
		e.ByteCount,
		e.UniqueIdentifier,
		e.Type,
	} {
		buf = encoding.PutUint32(buf, v)
	}
	copy(out[len(buf):], e.Filename[:])
	return out
}

// SetName stores name in the fixed width filename field.
func (e *FileEntry) SetName(name string) {
	copy(e.Filename[:], encoding.MarshalString(name, consts.OPERA_FILESYSTEM_MAX_NAME_LEN))
}
