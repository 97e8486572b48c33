package directory

import "fmt"

// Directory record flag bits.
const (
	FLAG_IS_DIRECTORY      uint32 = 0x00000001
	FLAG_IS_READONLY       uint32 = 0x00000002
	FLAG_IS_FOR_FILESYSTEM uint32 = 0x00000004
	FLAG_LAST_IN_BLOCK     uint32 = 0x40000000
	FLAG_LAST_IN_DIR       uint32 = 0x80000000
)

// Well known record types.
const (
	TYPE_DIRECTORY uint32 = 0x2a646972 // "*dir"
	TYPE_LABEL     uint32 = 0x2a6c626c // "*lbl"
	TYPE_CATAPULT  uint32 = 0x2a7a6170 // "*zap"
)

// Flags is the 32-bit flag word of a directory record.
//
//	Bit 0  - directory
//	Bit 1  - read-only
//	Bit 2  - reserved for filesystem use
//	Bit 30 - last entry in this directory block
//	Bit 31 - last entry in this directory
type Flags uint32

func (f Flags) IsDirectory() bool     { return uint32(f)&FLAG_IS_DIRECTORY != 0 }
func (f Flags) IsReadOnly() bool      { return uint32(f)&FLAG_IS_READONLY != 0 }
func (f Flags) IsForFilesystem() bool { return uint32(f)&FLAG_IS_FOR_FILESYSTEM != 0 }
func (f Flags) LastInBlock() bool     { return uint32(f)&FLAG_LAST_IN_BLOCK != 0 }
func (f Flags) LastInDir() bool       { return uint32(f)&FLAG_LAST_IN_DIR != 0 }

// Mode renders the flags the way the list command shows them, e.g. "dr-".
func (f Flags) Mode() string {
	b := []byte("---")
	if f.IsDirectory() {
		b[0] = 'd'
	}
	if f.IsReadOnly() {
		b[1] = 'r'
	}
	if f.IsForFilesystem() {
		b[2] = 'f'
	}
	return string(b)
}

func (f Flags) String() string {
	return fmt.Sprintf("%s(0x%08X)", f.Mode(), uint32(f))
}
