package encoding

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_Scalars(t *testing.T) {
	data := []byte{
		0x7F,
		0xDE, 0xAD, 0xBE, 0xEF,
		0xFF, 0xFF, 0xFF, 0xFF,
		'a', 'b', 'c',
	}
	r := NewReader(bytes.NewReader(data))

	u8, err := r.Uint8("u8")
	require.NoError(t, err)
	require.Equal(t, uint8(0x7F), u8)

	u32, err := r.Uint32("u32")
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.Int32("i32")
	require.NoError(t, err)
	require.Equal(t, int32(-1), i32)

	raw := make([]byte, 3)
	require.NoError(t, r.Fixed(raw, "raw"))
	require.Equal(t, []byte("abc"), raw)

	_, err = r.Uint8("past end")
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReader_ShortRead(t *testing.T) {
	t.Run("partial value", func(t *testing.T) {
		r := NewReader(bytes.NewReader([]byte{0x01, 0x02}))
		_, err := r.Uint32("block_size")
		require.Error(t, err)
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		require.Contains(t, err.Error(), "block_size")
	})

	t.Run("empty stream", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil))
		_, err := r.Uint8("record_type")
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	})
}

func TestMarshalString(t *testing.T) {
	t.Run("pads with NUL", func(t *testing.T) {
		require.Equal(t, []byte{'c', 'd', 0, 0}, MarshalString("cd", 4))
	})

	t.Run("truncates", func(t *testing.T) {
		require.Equal(t, []byte("Ope"), MarshalString("Opera", 3))
	})

	t.Run("unmarshal stops at NUL", func(t *testing.T) {
		require.Equal(t, "cd", UnmarshalString([]byte{'c', 'd', 0, 'x'}))
		require.Equal(t, "full", UnmarshalString([]byte("full")))
	})
}

func TestPutUint32(t *testing.T) {
	b := PutUint32(nil, 0x2a646972)
	require.Equal(t, []byte("*dir"), b)
	require.Equal(t, []byte("*dir\x00\x00\x00\x01"), PutUint32(b, 1))
}
