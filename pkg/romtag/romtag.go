package romtag

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/encoding"
)

// ROMTag describes one component embedded in a disc or ROM image. The table of tags follows the disc label.
type ROMTag struct {
	SubSysType   uint8 `json:"sub_systype" yaml:"sub_systype"`
	Type         uint8 `json:"type" yaml:"type"`
	Version      uint8 `json:"version" yaml:"version"`
	Revision     uint8 `json:"revision" yaml:"revision"`
	Flags        uint8 `json:"flags" yaml:"flags"`
	TypeSpecific uint8 `json:"type_specific" yaml:"type_specific"`
	Reserved1    uint8 `json:"-" yaml:"-"`
	Reserved2    uint8 `json:"-" yaml:"-"`
	// Offset is the component's first block, relative to the block holding the tag table.
	Offset uint32 `json:"offset" yaml:"offset"`
	// Size is the component's byte length, authoritative over a directory record's byte count.
	Size     uint32    `json:"size" yaml:"size"`
	Reserved [4]uint32 `json:"-" yaml:"-"`
}

// IsSentinel reports whether the tag terminates a sentinel terminated table.
func (t *ROMTag) IsSentinel() bool {
	return t.SubSysType == 0 && t.Type == 0
}

// SizesFile reports whether the tag carries the byte count of the file at its offset. Only RSA node tags do; system
// ROM and CDINFO tags leave offset and size zero.
func (t *ROMTag) SizesFile() bool {
	return t.SubSysType == RT_SUBSYS_RSANODE && t.Size > 0
}

// TypeName returns a symbolic name for the tag type, or its hex value when unknown.
func (t *ROMTag) TypeName() string {
	var names map[uint8]string
	switch t.SubSysType {
	case RT_SUBSYS_RSANODE:
		names = rsaNames
	case RT_SUBSYS_ROM:
		names = romNames
	}
	if name, ok := names[t.Type]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", t.Type)
}

// Read decodes a ROM tag from r.
func Read(r io.Reader) (*ROMTag, error) {
	var t ROMTag
	er := encoding.NewReader(r)
	var head [8]byte
	if err := er.Fixed(head[:], "romtag header"); err != nil {
		return nil, err
	}
	t.SubSysType, t.Type, t.Version, t.Revision = head[0], head[1], head[2], head[3]
	t.Flags, t.TypeSpecific, t.Reserved1, t.Reserved2 = head[4], head[5], head[6], head[7]

	var err error
	if t.Offset, err = er.Uint32("offset"); err != nil {
		return nil, err
	}
	if t.Size, err = er.Uint32("size"); err != nil {
		return nil, err
	}
	for i := range t.Reserved {
		if t.Reserved[i], err = er.Uint32("reserved"); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// Unmarshal decodes the tag from a fixed size buffer.
func (t *ROMTag) Unmarshal(data [consts.ROMTAG_SIZE]byte) error {
	decoded, err := Read(bytes.NewReader(data[:]))
	if err != nil {
		return fmt.Errorf("failed to unmarshal rom tag: %w", err)
	}
	*t = *decoded
	return nil
}

// Marshal encodes the tag in its on-disc layout.
func (t *ROMTag) Marshal() [consts.ROMTAG_SIZE]byte {
	var out [consts.ROMTAG_SIZE]byte
	buf := append(out[:0],
		t.SubSysType, t.Type, t.Version, t.Revision,
		t.Flags, t.TypeSpecific, t.Reserved1, t.Reserved2)
	buf = encoding.PutUint32(buf, t.Offset)
	buf = encoding.PutUint32(buf, t.Size)
	for _, v := range t.Reserved {
		buf = encoding.PutUint32(buf, v)
	}
	return out
}
