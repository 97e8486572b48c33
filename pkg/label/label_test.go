package label

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/stretchr/testify/require"
)

// fixtureBytes builds a label by hand so decoding is checked against an independent encoder.
func fixtureBytes(m2 bool) []byte {
	var b bytes.Buffer
	b.WriteByte(0x01)
	b.Write([]byte{0x5A, 0x5A, 0x5A, 0x5A, 0x5A})
	b.WriteByte(0x01)
	if m2 {
		b.WriteByte(0x01)
	} else {
		b.WriteByte(0x00)
	}
	comment := make([]byte, 32)
	copy(comment, "Opera commentary")
	b.Write(comment)
	ident := make([]byte, 32)
	copy(ident, "CD-ROM")
	b.Write(ident)
	for _, v := range []uint32{0xCAFEBABE, 2048, 0x1234, 0xABCD0001, 1, 2048, 1, 0x22, 0x23, 0, 0, 0, 0, 0, 0} {
		b.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
	}
	if m2 {
		b.Write([]byte{0, 0, 0, 3})
		b.Write([]byte{0xA0, 0xB0, 0xC0, 0xD0})
	}
	return b.Bytes()
}

func TestDiscLabel_Size(t *testing.T) {
	require.Equal(t, 0x84, DISC_LABEL_SIZE)
	require.Equal(t, 0x8C, DISC_LABEL_M2_SIZE)
}

func TestDiscLabel_RoundTrip(t *testing.T) {
	for _, m2 := range []bool{false, true} {
		name := "base"
		if m2 {
			name = "m2"
		}
		t.Run(name, func(t *testing.T) {
			data := fixtureBytes(m2)

			l, err := Read(bytes.NewReader(data))
			require.NoError(t, err)
			require.True(t, l.Valid())
			require.Equal(t, m2, l.IsM2())
			require.Equal(t, len(data), l.Size())
			require.Equal(t, "CD-ROM", l.VolumeIdentifier())
			require.Equal(t, "Opera commentary", l.VolumeCommentary())
			require.Equal(t, uint32(0xCAFEBABE), l.UniqueIdentifier)
			require.Equal(t, uint32(2048), l.BlockSize)
			require.Equal(t, uint32(0x1234), l.BlockCount)
			require.Equal(t, uint32(0xABCD0001), l.RootUniqueIdentifier)
			require.Equal(t, uint32(1), l.RootDirectoryBlockCount)
			require.Equal(t, uint32(2048), l.RootDirectoryBlockSize)
			require.Equal(t, uint32(1), l.RootDirectoryLastAvatarIndex)
			require.Equal(t, uint32(0x22), l.RootAvatar())
			require.Equal(t, uint32(0x23), l.RootDirectoryAvatarList[1])
			if m2 {
				require.Equal(t, uint32(3), l.NumROMTags)
				require.Equal(t, uint32(0xA0B0C0D0), l.ApplicationID)
			} else {
				require.Zero(t, l.NumROMTags)
				require.Zero(t, l.ApplicationID)
			}

			out, err := l.Marshal()
			require.NoError(t, err)
			require.Equal(t, data, out)
		})
	}
}

func TestDiscLabel_NonM2DoesNotConsumeExtension(t *testing.T) {
	data := append(fixtureBytes(false), 0xFF, 0xFF, 0xFF, 0xFF)
	r := bytes.NewReader(data)
	_, err := Read(r)
	require.NoError(t, err)
	require.Equal(t, 4, r.Len())
}

func TestDiscLabel_Unmarshal(t *testing.T) {
	t.Run("short data", func(t *testing.T) {
		var l DiscLabel
		err := l.Unmarshal(make([]byte, 10))
		require.Error(t, err)
	})

	t.Run("m2 flag without extension bytes", func(t *testing.T) {
		data := fixtureBytes(true)
		var l DiscLabel
		err := l.Unmarshal(data[:DISC_LABEL_SIZE])
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	})

	t.Run("invalid sync", func(t *testing.T) {
		data := fixtureBytes(false)
		data[3] = 0x00
		var l DiscLabel
		require.NoError(t, l.Unmarshal(data))
		require.False(t, l.Valid())
	})
}

func TestNew(t *testing.T) {
	l := New("opera", 2048)
	require.True(t, l.Valid())
	require.Equal(t, "opera", l.VolumeIdentifier())
	require.Equal(t, uint8(consts.OPERA_VOLUME_STRUCTURE_READONLY), l.StructureVersion)

	data, err := l.Marshal()
	require.NoError(t, err)
	require.Len(t, data, DISC_LABEL_SIZE)
}
