// Package fixture builds small synthetic OperaFS images for tests.
package fixture

import (
	"bytes"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/linkedmem"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/bgrewell/opera-kit/pkg/stream"
)

const BlockSize = consts.OPERA_BLOCK_SIZE

// Node describes a file or directory placed in a built image.
type Node struct {
	Name     string
	ID       uint32
	Type     uint32
	Data     []byte
	Dir      bool
	ReadOnly bool
	Children []*Node
}

// File returns a file node holding data.
func File(name string, id uint32, data []byte) *Node {
	return &Node{Name: name, ID: id, Type: 0x41524d20, Data: data}
}

// Dir returns a directory node.
func Dir(name string, id uint32, children ...*Node) *Node {
	return &Node{Name: name, ID: id, Type: directory.TYPE_DIRECTORY, Dir: true, Children: children}
}

// Builder lays out filesystem blocks. Block 0 holds the label and block 1 the ROM tag table.
type Builder struct {
	Label   *label.DiscLabel
	ROMTags []romtag.ROMTag
	Blocks  [][]byte
}

// NewBuilder returns a builder with the label and ROM tag blocks reserved.
func NewBuilder(volume string) *Builder {
	l := label.New(volume, BlockSize)
	l.UniqueIdentifier = 0x0BADF00D
	l.RootUniqueIdentifier = 0x00C0FFEE
	return &Builder{
		Label:  l,
		Blocks: [][]byte{make([]byte, BlockSize), make([]byte, BlockSize)},
	}
}

// Alloc appends count zeroed blocks and returns the index of the first.
func (b *Builder) Alloc(count int) uint32 {
	first := uint32(len(b.Blocks))
	for i := 0; i < count; i++ {
		b.Blocks = append(b.Blocks, make([]byte, BlockSize))
	}
	return first
}

// Put copies data into consecutive blocks starting at block n.
func (b *Builder) Put(n uint32, data []byte) {
	for len(data) > 0 {
		k := copy(b.Blocks[n], data)
		data = data[k:]
		n++
	}
}

func blocksFor(size int) int {
	return (size + BlockSize - 1) / BlockSize
}

// Tree writes root as a one block per directory v1 tree and points the label at it.
func (b *Builder) Tree(root []*Node) {
	b.SetRoot(b.directory(root), 1)
}

// SetRoot points the label at a v1 root directory of count blocks starting at block.
func (b *Builder) SetRoot(block uint32, count uint32) {
	b.Label.StructureVersion = consts.OPERA_VOLUME_STRUCTURE_READONLY
	b.Label.RootDirectoryBlockCount = count
	b.Label.RootDirectoryBlockSize = BlockSize
	b.Label.RootDirectoryLastAvatarIndex = 0
	b.Label.RootDirectoryAvatarList[0] = block
}

func (b *Builder) directory(children []*Node) uint32 {
	block := b.Alloc(1)
	records := make([]*directory.Record, 0, len(children))
	for _, child := range children {
		rec := &directory.Record{
			UniqueIdentifier: child.ID,
			Type:             child.Type,
			BlockSize:        BlockSize,
		}
		rec.SetName(child.Name)
		if child.ReadOnly {
			rec.Flags |= directory.Flags(directory.FLAG_IS_READONLY)
		}
		if child.Dir {
			rec.Flags |= directory.Flags(directory.FLAG_IS_DIRECTORY)
			rec.ByteCount = BlockSize
			rec.BlockCount = 1
			rec.AvatarList = []uint32{b.directory(child.Children)}
		} else {
			n := blocksFor(len(child.Data))
			first := b.Alloc(n)
			b.Put(first, child.Data)
			rec.ByteCount = uint32(len(child.Data))
			rec.BlockCount = uint32(n)
			rec.AvatarList = []uint32{first}
		}
		records = append(records, rec)
	}
	if len(records) > 0 {
		records[len(records)-1].Flags |= directory.Flags(directory.FLAG_LAST_IN_BLOCK | directory.FLAG_LAST_IN_DIR)
	}
	b.Put(block, DirectoryBlock(-1, -1, records...))
	return block
}

// DirectoryBlock encodes a directory block: a header followed by records, with first_free_byte set to the end of the
// last record. Records are written as given, flags included.
func DirectoryBlock(next, prev int32, records ...*directory.Record) []byte {
	body := make([]byte, 0, BlockSize)
	for _, rec := range records {
		data, err := rec.Marshal()
		if err != nil {
			panic(err)
		}
		body = append(body, data...)
	}
	h := directory.Header{
		NextBlock:        next,
		PrevBlock:        prev,
		FirstEntryOffset: directory.DIRECTORY_HEADER_SIZE,
		FirstFreeByte:    uint32(directory.DIRECTORY_HEADER_SIZE + len(body)),
	}
	if len(records) == 0 {
		h.FirstEntryOffset = consts.OPERA_DIRECTORY_NO_ENTRIES
	}
	hdr := h.Marshal()
	out := make([]byte, BlockSize)
	copy(out, hdr[:])
	copy(out[directory.DIRECTORY_HEADER_SIZE:], body)
	return out
}

// FileRecord returns a record for a file of size bytes starting at block avatar.
func FileRecord(name string, id uint32, avatar uint32, size uint32, flags uint32) *directory.Record {
	rec := &directory.Record{
		Flags:            directory.Flags(flags),
		UniqueIdentifier: id,
		Type:             0x41524d20,
		BlockSize:        BlockSize,
		ByteCount:        size,
		BlockCount:       uint32(blocksFor(int(size))),
		AvatarList:       []uint32{avatar},
	}
	rec.SetName(name)
	return rec
}

// LinkedMem writes files as a linked memory list starting at a fresh block and points the label at it. The final
// entry links back to the first, closing the list. A free block is threaded between the first and second file.
func (b *Builder) LinkedMem(files []*Node) {
	type placed struct {
		block uint32
		entry linkedmem.FileEntry
	}
	var list []placed
	for i, f := range files {
		if i == 1 {
			free := b.Alloc(1)
			list = append(list, placed{block: free, entry: linkedmem.FileEntry{
				Block: linkedmem.Block{Fingerprint: linkedmem.FINGERPRINT_FREEBLOCK, BlockCount: 1},
			}})
		}
		n := blocksFor(len(f.Data))
		at := b.Alloc(1 + n)
		b.Put(at+1, f.Data)
		e := linkedmem.FileEntry{
			Block: linkedmem.Block{
				Fingerprint:      linkedmem.FINGERPRINT_FILEBLOCK,
				BlockCount:       int32(1 + n),
				HeaderBlockCount: 1,
			},
			ByteCount:        uint32(len(f.Data)),
			UniqueIdentifier: f.ID,
			Type:             f.Type,
		}
		e.SetName(f.Name)
		list = append(list, placed{block: at, entry: e})
	}
	for i := range list {
		next := list[(i+1)%len(list)].block
		prev := list[(i+len(list)-1)%len(list)].block
		list[i].entry.FlinkOffset = int32(next)
		list[i].entry.BlinkOffset = int32(prev)
		data := list[i].entry.Marshal()
		b.Put(list[i].block, data[:])
	}

	b.Label.StructureVersion = consts.OPERA_VOLUME_STRUCTURE_LINKED_MEM
	b.Label.RootDirectoryBlockCount = 1
	b.Label.RootDirectoryBlockSize = BlockSize
	if len(list) > 0 {
		b.Label.RootDirectoryAvatarList[0] = list[0].block
	}
}

// Bytes encodes the label and ROM tags and returns the unframed image.
func (b *Builder) Bytes() []byte {
	b.Label.BlockCount = uint32(len(b.Blocks))
	lbl, err := b.Label.Marshal()
	if err != nil {
		panic(err)
	}
	copy(b.Blocks[0], lbl)

	table := make([]byte, 0, BlockSize)
	for _, tag := range b.ROMTags {
		data := tag.Marshal()
		table = append(table, data[:]...)
	}
	copy(b.Blocks[consts.ROMTAG_TABLE_BLOCK], make([]byte, BlockSize))
	copy(b.Blocks[consts.ROMTAG_TABLE_BLOCK], table)

	out := make([]byte, 0, len(b.Blocks)*BlockSize)
	for _, blk := range b.Blocks {
		out = append(out, blk...)
	}
	return out
}

// Frame wraps every 2048 byte block of an unframed image in the given layout. Framed layouts get a Mode 1 sync
// pattern and mode byte in their header.
func Frame(data []byte, layout geometry.Layout) []byte {
	out := make([]byte, 0, int64(len(data))/layout.Data*layout.DeviceBlockSize())
	for off := int64(0); off < int64(len(data)); off += layout.Data {
		header := make([]byte, layout.Header)
		if layout.Header >= consts.CD_HEADER_SIZE {
			copy(header, consts.CD_MODE1_SYNC[:])
			header[consts.CD_MODE_OFFSET] = consts.CD_MODE1
		}
		out = append(out, header...)
		end := off + layout.Data
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		out = append(out, data[off:end]...)
		out = append(out, make([]byte, layout.Footer)...)
	}
	return out
}

// Open frames the built image in layout and returns a stream set up over it.
func (b *Builder) Open(layout geometry.Layout) (*stream.Stream, error) {
	data := Frame(b.Bytes(), layout)
	s := stream.New(bytes.NewReader(data), int64(len(data)))
	if err := s.Setup(); err != nil {
		return nil, err
	}
	return s, nil
}
