package directory

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawRecord(flags uint32, lastAvatar uint32, avatars ...uint32) []byte {
	var b bytes.Buffer
	for _, v := range []uint32{flags, 0x11, TYPE_DIRECTORY, 2048, 4096, 2, 0, 0} {
		binary.Write(&b, binary.BigEndian, v)
	}
	name := make([]byte, 32)
	copy(name, "Launchme")
	b.Write(name)
	binary.Write(&b, binary.BigEndian, lastAvatar)
	for _, a := range avatars {
		binary.Write(&b, binary.BigEndian, a)
	}
	return b.Bytes()
}

func TestReadRecord(t *testing.T) {
	data := rawRecord(FLAG_IS_DIRECTORY|FLAG_IS_READONLY|FLAG_LAST_IN_DIR, 1, 0x40, 0x90)
	rec, err := ReadRecord(bytes.NewReader(data))
	require.NoError(t, err)

	require.True(t, rec.IsDirectory())
	require.True(t, rec.IsReadOnly())
	require.False(t, rec.IsForFilesystem())
	require.True(t, rec.LastInDir())
	require.False(t, rec.LastInBlock())
	require.Equal(t, uint32(0x11), rec.UniqueIdentifier)
	require.Equal(t, "*dir", rec.TypeString())
	require.Equal(t, uint32(2048), rec.BlockSize)
	require.Equal(t, uint32(4096), rec.ByteCount)
	require.Equal(t, uint32(2), rec.BlockCount)
	require.Equal(t, "Launchme", rec.Name())
	require.Equal(t, []uint32{0x40, 0x90}, rec.AvatarList)
	require.Equal(t, uint32(0x40), rec.Avatar())
	require.Equal(t, int64(0x40*2048), rec.AvatarOffset(2048))
	require.Equal(t, len(data), rec.Size())
	require.Equal(t, "dr-", rec.Flags.Mode())

	out, err := rec.Marshal()
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestReadRecord_AvatarClamp(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
	}{
		{"zero", 0},
		{"seven", 7},
		{"eight", 8},
		{"huge", 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avatars := make([]uint32, 8)
			for i := range avatars {
				avatars[i] = uint32(i + 1)
			}
			rec, err := ReadRecord(bytes.NewReader(rawRecord(0, tt.raw, avatars...)))
			require.NoError(t, err)

			want := tt.raw
			if want > 7 {
				want = 7
			}
			require.Len(t, rec.AvatarList, int(want)+1)
			require.Equal(t, want, rec.LastAvatarIndex)
			require.Equal(t, uint32(1), rec.Avatar())
		})
	}
}

func TestReadRecord_Truncated(t *testing.T) {
	data := rawRecord(0, 3, 1, 2)
	_, err := ReadRecord(bytes.NewReader(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "avatar_list")
}

func TestRecord_MarshalRejectsEmptyAvatarList(t *testing.T) {
	rec := &Record{}
	_, err := rec.Marshal()
	require.Error(t, err)
}

func TestRecord_MarshalAvatarIndex(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		rec := &Record{LastAvatarIndex: 2, AvatarList: []uint32{5, 6, 7}}
		out, err := rec.Marshal()
		require.NoError(t, err)
		back, err := ReadRecord(bytes.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, uint32(2), back.LastAvatarIndex)
		require.Equal(t, []uint32{5, 6, 7}, back.AvatarList)
	})

	t.Run("index past the list", func(t *testing.T) {
		rec := &Record{LastAvatarIndex: 3, AvatarList: []uint32{5, 6}}
		_, err := rec.Marshal()
		require.ErrorContains(t, err, "last avatar index 3")
	})

	t.Run("index short of the list", func(t *testing.T) {
		rec := &Record{AvatarList: []uint32{5, 6}}
		_, err := rec.Marshal()
		require.Error(t, err)
	})
}

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{NextBlock: -1, PrevBlock: 3, Flags: 0, FirstFreeByte: 0x1F0, FirstEntryOffset: DIRECTORY_HEADER_SIZE}
	data := h.Marshal()
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, data[:4])

	var h2 Header
	require.NoError(t, h2.Unmarshal(data))
	require.Equal(t, h, h2)
	require.True(t, h2.HasEntries())

	h2.FirstEntryOffset = -1
	require.False(t, h2.HasEntries())
}

func TestEntry(t *testing.T) {
	rec := &Record{Flags: Flags(FLAG_IS_DIRECTORY), ByteCount: 2048, AvatarList: []uint32{1}}
	rec.SetName("Data")
	e := Entry{Path: "Sub/Data", Record: rec}
	require.Equal(t, "Data", e.Name())
	require.True(t, e.IsDir())
	require.True(t, e.Mode()&fs.ModeDir != 0)
	require.Equal(t, int64(2048), e.Size())
	require.Same(t, rec, e.Sys())
}
