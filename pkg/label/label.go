package label

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/encoding"
)

const (
	// DISC_LABEL_SIZE is the size of the base label on disc.
	DISC_LABEL_SIZE = 1 + consts.OPERA_SYNC_BYTE_LEN + 1 + 1 +
		consts.OPERA_FILESYSTEM_MAX_NAME_LEN*2 +
		7*4 +
		(consts.OPERA_ROOT_HIGHEST_AVATAR+1)*4
	// DISC_LABEL_M2_SIZE is the size of a label carrying the M2 extension fields.
	DISC_LABEL_M2_SIZE = DISC_LABEL_SIZE + 8
)

// ErrInvalidLabel is returned when the record type or sync bytes do not match the OperaFS constants.
var ErrInvalidLabel = errors.New("invalid disc label")

// DiscLabel is the OperaFS superblock found at data position 0 of every volume.
type DiscLabel struct {
	// RecordType must be OPERA_RECORD_TYPE_LABEL.
	RecordType uint8 `json:"record_type" yaml:"record_type"`
	// SyncBytes must all be OPERA_SYNC_BYTE.
	SyncBytes [consts.OPERA_SYNC_BYTE_LEN]byte `json:"sync_bytes" yaml:"sync_bytes"`
	// StructureVersion selects the directory encoding: 1 read-only block chains, 2 linked memory.
	StructureVersion uint8 `json:"structure_version" yaml:"structure_version"`
	// Flags carries OPERA_VOLUME_FLAG_M2 on later discs.
	Flags uint8 `json:"flags" yaml:"flags"`
	// Commentary is a free form NUL padded string.
	Commentary [consts.OPERA_FILESYSTEM_MAX_NAME_LEN]byte `json:"-" yaml:"-"`
	// Identifier is the NUL padded volume name.
	Identifier [consts.OPERA_FILESYSTEM_MAX_NAME_LEN]byte `json:"-" yaml:"-"`
	// UniqueIdentifier is an effectively random 32-bit volume id.
	UniqueIdentifier uint32 `json:"unique_identifier" yaml:"unique_identifier"`
	// BlockSize is the filesystem data block size, the unit of all later addressing.
	BlockSize uint32 `json:"block_size" yaml:"block_size"`
	// BlockCount is the number of filesystem blocks in the volume.
	BlockCount uint32 `json:"block_count" yaml:"block_count"`
	// RootUniqueIdentifier is the unique id of the root directory.
	RootUniqueIdentifier uint32 `json:"root_unique_identifier" yaml:"root_unique_identifier"`
	// RootDirectoryBlockCount is the number of blocks allocated to the root directory.
	RootDirectoryBlockCount uint32 `json:"root_directory_block_count" yaml:"root_directory_block_count"`
	// RootDirectoryBlockSize is the size of each root directory block.
	RootDirectoryBlockSize uint32 `json:"root_directory_block_size" yaml:"root_directory_block_size"`
	// RootDirectoryLastAvatarIndex is the index of the last valid entry in RootDirectoryAvatarList.
	RootDirectoryLastAvatarIndex uint32 `json:"root_directory_last_avatar_index" yaml:"root_directory_last_avatar_index"`
	// RootDirectoryAvatarList holds redundant copies of the root directory's first block.
	RootDirectoryAvatarList [consts.OPERA_ROOT_HIGHEST_AVATAR + 1]uint32 `json:"root_directory_avatar_list" yaml:"root_directory_avatar_list"`
	// NumROMTags is only present on disc when the M2 flag is set.
	NumROMTags uint32 `json:"num_rom_tags" yaml:"num_rom_tags"`
	// ApplicationID is only present on disc when the M2 flag is set.
	ApplicationID uint32 `json:"application_id" yaml:"application_id"`
}

// IsM2 reports whether the label carries the M2 extension fields.
func (l *DiscLabel) IsM2() bool {
	return l.Flags&consts.OPERA_VOLUME_FLAG_M2 != 0
}

// Size returns the on-disc size of the label.
func (l *DiscLabel) Size() int {
	if l.IsM2() {
		return DISC_LABEL_M2_SIZE
	}
	return DISC_LABEL_SIZE
}

// Valid reports whether the record type and sync bytes match the OperaFS constants.
func (l *DiscLabel) Valid() bool {
	if l.RecordType != consts.OPERA_RECORD_TYPE_LABEL {
		return false
	}
	for _, b := range l.SyncBytes {
		if b != consts.OPERA_SYNC_BYTE {
			return false
		}
	}
	return true
}

// VolumeIdentifier returns the volume name without its NUL padding.
func (l *DiscLabel) VolumeIdentifier() string {
	return encoding.UnmarshalString(l.Identifier[:])
}

// VolumeCommentary returns the commentary without its NUL padding.
func (l *DiscLabel) VolumeCommentary() string {
	return encoding.UnmarshalString(l.Commentary[:])
}

// RootAvatar returns the first block of the root directory.
func (l *DiscLabel) RootAvatar() uint32 {
	return l.RootDirectoryAvatarList[0]
}

// Read decodes a label from r, consuming the M2 fields only when the M2 flag is set.
func Read(r io.Reader) (*DiscLabel, error) {
	var l DiscLabel
	er := encoding.NewReader(r)

	var err error
	if l.RecordType, err = er.Uint8("record_type"); err != nil {
		return nil, err
	}
	if err = er.Fixed(l.SyncBytes[:], "sync_bytes"); err != nil {
		return nil, err
	}
	if l.StructureVersion, err = er.Uint8("structure_version"); err != nil {
		return nil, err
	}
	if l.Flags, err = er.Uint8("flags"); err != nil {
		return nil, err
	}
	if err = er.Fixed(l.Commentary[:], "commentary"); err != nil {
		return nil, err
	}
	if err = er.Fixed(l.Identifier[:], "identifier"); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		dst  *uint32
	}{
		{"unique_identifier", &l.UniqueIdentifier},
		{"block_size", &l.BlockSize},
		{"block_count", &l.BlockCount},
		{"root_unique_identifier", &l.RootUniqueIdentifier},
		{"root_directory_block_count", &l.RootDirectoryBlockCount},
		{"root_directory_block_size", &l.RootDirectoryBlockSize},
		{"root_directory_last_avatar_index", &l.RootDirectoryLastAvatarIndex},
	}
	for _, f := range fields {
		if *f.dst, err = er.Uint32(f.name); err != nil {
			return nil, err
		}
	}
	for i := range l.RootDirectoryAvatarList {
		if l.RootDirectoryAvatarList[i], err = er.Uint32("root_directory_avatar_list"); err != nil {
			return nil, err
		}
	}

	if l.IsM2() {
		if l.NumROMTags, err = er.Uint32("num_rom_tags"); err != nil {
			return nil, err
		}
		if l.ApplicationID, err = er.Uint32("application_id"); err != nil {
			return nil, err
		}
	}

	return &l, nil
}

// Unmarshal decodes the label from data, which must hold at least Size() bytes once the flags are known.
func (l *DiscLabel) Unmarshal(data []byte) error {
	if len(data) < DISC_LABEL_SIZE {
		return fmt.Errorf("disc label requires %d bytes, got %d", DISC_LABEL_SIZE, len(data))
	}
	decoded, err := Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to unmarshal disc label: %w", err)
	}
	*l = *decoded
	return nil
}

// Marshal encodes the label in its on-disc layout. The M2 fields are written only when the M2 flag is set.
func (l *DiscLabel) Marshal() ([]byte, error) {
	buf := make([]byte, 0, l.Size())
	buf = append(buf, l.RecordType)
	buf = append(buf, l.SyncBytes[:]...)
	buf = append(buf, l.StructureVersion, l.Flags)
	buf = append(buf, l.Commentary[:]...)
	buf = append(buf, l.Identifier[:]...)
	for _, v := range []uint32{
		l.UniqueIdentifier,
		l.BlockSize,
		l.BlockCount,
		l.RootUniqueIdentifier,
		l.RootDirectoryBlockCount,
		l.RootDirectoryBlockSize,
		l.RootDirectoryLastAvatarIndex,
	} {
		buf = encoding.PutUint32(buf, v)
	}
	for _, v := range l.RootDirectoryAvatarList {
		buf = encoding.PutUint32(buf, v)
	}
	if l.IsM2() {
		buf = encoding.PutUint32(buf, l.NumROMTags)
		buf = encoding.PutUint32(buf, l.ApplicationID)
	}
	if len(buf) != l.Size() {
		return nil, fmt.Errorf("marshalled disc label is %d bytes, expected %d", len(buf), l.Size())
	}
	return buf, nil
}

// New returns a label with valid record type and sync bytes for the given volume name.
func New(identifier string, blockSize uint32) *DiscLabel {
	l := &DiscLabel{
		RecordType:       consts.OPERA_RECORD_TYPE_LABEL,
		StructureVersion: consts.OPERA_VOLUME_STRUCTURE_READONLY,
		BlockSize:        blockSize,
	}
	for i := range l.SyncBytes {
		l.SyncBytes[i] = consts.OPERA_SYNC_BYTE
	}
	copy(l.Identifier[:], encoding.MarshalString(identifier, consts.OPERA_FILESYSTEM_MAX_NAME_LEN))
	return l
}
