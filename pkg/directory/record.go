package directory

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/encoding"
	"github.com/bgrewell/opera-kit/pkg/helpers"
)

// DIRECTORY_RECORD_BASE_SIZE is the size of a record before its avatar list.
const DIRECTORY_RECORD_BASE_SIZE = 8*4 + consts.OPERA_FILESYSTEM_MAX_NAME_LEN + 4

// Record is one file or subdirectory entry of an OperaFS directory block.
type Record struct {
	// Flags holds the directory, read-only and end of block/directory markers.
	Flags Flags `json:"flags"`
	// UniqueIdentifier is the filesystem wide id of the entry.
	UniqueIdentifier uint32 `json:"unique_identifier"`
	// Type is a four character tag stored as a big-endian 32-bit value, e.g. "*dir".
	Type uint32 `json:"type"`
	// BlockSize is the block size of the entry's data, for directories the size of each directory block.
	BlockSize uint32 `json:"block_size"`
	// ByteCount is the logical size of the entry. A ROM tag may carry a more accurate value.
	ByteCount uint32 `json:"byte_count"`
	// BlockCount is the number of blocks allocated to the entry.
	BlockCount uint32 `json:"block_count"`
	// Burst and Gap are media access hints which readers ignore.
	Burst uint32 `json:"burst"`
	Gap   uint32 `json:"gap"`
	// Filename is the raw NUL padded name.
	Filename [consts.OPERA_FILESYSTEM_MAX_NAME_LEN]byte `json:"-"`
	// LastAvatarIndex is clamped to OPERA_ROOT_HIGHEST_AVATAR on read.
	LastAvatarIndex uint32 `json:"last_avatar_index"`
	// AvatarList holds LastAvatarIndex+1 redundant copies of the entry's first block. Marshal rejects any other
	// length.
	AvatarList []uint32 `json:"avatar_list"`
}

func (r *Record) IsDirectory() bool     { return r.Flags.IsDirectory() }
func (r *Record) IsReadOnly() bool      { return r.Flags.IsReadOnly() }
func (r *Record) IsForFilesystem() bool { return r.Flags.IsForFilesystem() }
func (r *Record) LastInBlock() bool     { return r.Flags.LastInBlock() }
func (r *Record) LastInDir() bool       { return r.Flags.LastInDir() }

// Name returns the filename without its NUL padding.
func (r *Record) Name() string {
	return encoding.UnmarshalString(r.Filename[:])
}

// TypeString renders the type tag as four printable characters.
func (r *Record) TypeString() string {
	return helpers.FourCC(r.Type)
}

// Avatar returns the first block of the entry's data.
func (r *Record) Avatar() uint32 {
	if len(r.AvatarList) == 0 {
		return 0
	}
	return r.AvatarList[0]
}

// AvatarOffset returns the data space byte position of the entry's first block.
func (r *Record) AvatarOffset(volumeBlockSize uint32) int64 {
	return int64(r.Avatar()) * int64(volumeBlockSize)
}

// Size returns the on-disc size of the record including its avatar list.
func (r *Record) Size() int {
	return DIRECTORY_RECORD_BASE_SIZE + 4*len(r.AvatarList)
}

// ReadRecord decodes a directory record from r. The avatar index is clamped before the avatar list is read, so the
// list always holds between 1 and OPERA_ROOT_HIGHEST_AVATAR+1 entries.
func ReadRecord(r io.Reader) (*Record, error) {
	var rec Record
	er := encoding.NewReader(r)

	flags, err := er.Uint32("flags")
	if err != nil {
		return nil, err
	}
	rec.Flags = Flags(flags)

	fields := []struct {
		name string
		dst  *uint32
	}{
		{"unique_identifier", &rec.UniqueIdentifier},
		{"type", &rec.Type},
		{"block_size", &rec.BlockSize},
		{"byte_count", &rec.ByteCount},
		{"block_count", &rec.BlockCount},
		{"burst", &rec.Burst},
		{"gap", &rec.Gap},
	}
	for _, f := range fields {
		if *f.dst, err = er.Uint32(f.name); err != nil {
			return nil, err
		}
	}
	if err = er.Fixed(rec.Filename[:], "filename"); err != nil {
		return nil, err
	}
	if rec.LastAvatarIndex, err = er.Uint32("last_avatar_index"); err != nil {
		return nil, err
	}
	if rec.LastAvatarIndex > consts.OPERA_ROOT_HIGHEST_AVATAR {
		rec.LastAvatarIndex = consts.OPERA_ROOT_HIGHEST_AVATAR
	}

	rec.AvatarList = make([]uint32, rec.LastAvatarIndex+1)
	for i := range rec.AvatarList {
		if rec.AvatarList[i], err = er.Uint32("avatar_list"); err != nil {
			return nil, err
		}
	}

	return &rec, nil
}

// Unmarshal decodes the record from data.
func (r *Record) Unmarshal(data []byte) error {
	if len(data) < DIRECTORY_RECORD_BASE_SIZE+4 {
		return fmt.Errorf("directory record requires at least %d bytes, got %d", DIRECTORY_RECORD_BASE_SIZE+4, len(data))
	}
	decoded, err := ReadRecord(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to unmarshal directory record: %w", err)
	}
	*r = *decoded
	return nil
}

// Marshal encodes the record in its on-disc layout. LastAvatarIndex must index the last entry of AvatarList.
func (r *Record) Marshal() ([]byte, error) {
	if len(r.AvatarList) == 0 || len(r.AvatarList) > consts.OPERA_ROOT_HIGHEST_AVATAR+1 {
		return nil, fmt.Errorf("directory record must carry 1 to %d avatars, has %d",
			consts.OPERA_ROOT_HIGHEST_AVATAR+1, len(r.AvatarList))
	}
	if int(r.LastAvatarIndex) != len(r.AvatarList)-1 {
		return nil, fmt.Errorf("directory record last avatar index %d does not match %d avatars",
			r.LastAvatarIndex, len(r.AvatarList))
	}
	buf := make([]byte, 0, r.Size())
	for _, v := range []uint32{
		uint32(r.Flags),
		r.UniqueIdentifier,
		r.Type,
		r.BlockSize,
		r.ByteCount,
		r.BlockCount,
		r.Burst,
		r.Gap,
	} {
		buf = encoding.PutUint32(buf, v)
	}
	buf = append(buf, r.Filename[:]...)
	buf = encoding.PutUint32(buf, r.LastAvatarIndex)
	for _, v := range r.AvatarList {
		buf = encoding.PutUint32(buf, v)
	}
	return buf, nil
}

// SetName stores name in the fixed width filename field.
func (r *Record) SetName(name string) {
	copy(r.Filename[:], encoding.MarshalString(name, consts.OPERA_FILESYSTEM_MAX_NAME_LEN))
}

func (r *Record) String() string {
	return fmt.Sprintf("%s %d 0x%08X 0x%08X (%s) %s",
		r.Flags.Mode(), r.ByteCount, r.UniqueIdentifier, r.Type, r.TypeString(), r.Name())
}
