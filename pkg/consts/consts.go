package consts

const (
	// Disc label record type, the first byte of every OperaFS label.
	OPERA_RECORD_TYPE_LABEL = 0x01

	// Volume sync byte, repeated OPERA_SYNC_BYTE_LEN times after the record type.
	OPERA_SYNC_BYTE     = 0x5A
	OPERA_SYNC_BYTE_LEN = 5

	// Volume structure versions.
	OPERA_VOLUME_STRUCTURE_READONLY   = 1
	OPERA_VOLUME_STRUCTURE_LINKED_MEM = 2

	// Volume flag marking the M2 extended label (num_rom_tags, application_id).
	OPERA_VOLUME_FLAG_M2 = 0x01

	// Fixed width of the commentary, identifier and filename fields.
	OPERA_FILESYSTEM_MAX_NAME_LEN = 32

	// Highest avatar index a directory record or the label may carry.
	OPERA_ROOT_HIGHEST_AVATAR = 7

	// Directory header first_entry_offset value meaning the block has no entries.
	OPERA_DIRECTORY_NO_ENTRIES = -1

	// Default OperaFS data block size.
	OPERA_BLOCK_SIZE = 2048

	// Raw CD-ROM Mode 1 sector geometry.
	CD_SECTOR_SIZE    = 2352
	CD_SYNC_SIZE      = 12
	CD_HEADER_SIZE    = 16
	CD_DATA_SIZE      = 2048
	CD_FOOTER_SIZE    = CD_SECTOR_SIZE - CD_HEADER_SIZE - CD_DATA_SIZE
	CD_MODE_OFFSET    = 15
	CD_MODE1          = 0x01
	ISO_SECTOR_SIZE   = 2048
	ISO_EXTENSION     = "iso"
	BIN_EXTENSION     = "bin"
	UNKNOWN_EXTENSION = "unknown"

	// ROM tag record size and the data block the tag table starts in.
	ROMTAG_SIZE        = 32
	ROMTAG_TABLE_BLOCK = 1

	// Default maximum directory nesting depth followed by the walker.
	WALKER_MAX_DEPTH = 64
)

// CD_MODE1_SYNC is the 12 byte sync pattern found at the start of every raw Mode 1 sector.
var CD_MODE1_SYNC = [CD_SYNC_SIZE]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// ARM_NOOP is the "mov r1, r1" instruction found at the head of ROM filesystem images.
var ARM_NOOP = [4]byte{0xE1, 0xA0, 0x10, 0x01}
