package geometry

import (
	"bytes"
	"testing"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/stretchr/testify/require"
)

func TestLayout_DeviceBlockSize(t *testing.T) {
	require.Equal(t, int64(2048), ISO.DeviceBlockSize())
	require.Equal(t, int64(2352), RawCD.DeviceBlockSize())
	require.Equal(t, int64(288), RawCD.Footer)
	require.Equal(t, int64(512), Bare(512).DeviceBlockSize())
	require.False(t, ISO.Framed())
	require.True(t, RawCD.Framed())
}

func TestGeometry_RoundTrip(t *testing.T) {
	geometries := map[string]Geometry{
		"iso":                 New(ISO, 0),
		"raw cd":              New(RawCD, 0),
		"raw cd with pregap":  New(RawCD, 150*2048),
		"bare 512":            New(Bare(512), 0),
		"bare offset":         New(Bare(512), 96),
		"raw cd unaligned":    New(RawCD, 2048+17),
		"raw cd small blocks": New(RawCD.WithData(1024), 0),
	}

	for name, g := range geometries {
		t.Run(name, func(t *testing.T) {
			// data -> file -> data for every byte of the first few blocks
			for dataPos := int64(0); dataPos < 4*g.Data; dataPos++ {
				filePos := g.DataToFile(dataPos)
				require.Equal(t, dataPos, g.FileToData(filePos), "data position %d", dataPos)
			}

			// file -> data -> file for every byte inside a data region
			s := g.DeviceBlockSize()
			for block := int64(0); block < 4; block++ {
				for extra := g.Header; extra < g.Header+g.Data; extra++ {
					filePos := block*s + extra
					dataPos := g.FileToData(filePos)
					if dataPos < 0 {
						continue
					}
					require.Equal(t, filePos, g.DataToFile(dataPos), "file position %d", filePos)
				}
			}
		})
	}
}

func TestGeometry_RawCDTranslation(t *testing.T) {
	g := New(RawCD, 0)
	require.Equal(t, int64(16), g.DataToFile(0))
	require.Equal(t, int64(16+2047), g.DataToFile(2047))
	require.Equal(t, int64(2352+16), g.DataToFile(2048))
	require.Equal(t, int64(5*2352+16+100), g.BlockToFile(5)+100)
	require.Equal(t, int64(2048), g.DataRemaining(0))
	require.Equal(t, int64(1), g.DataRemaining(2047))
	require.Equal(t, int64(3), g.DeviceBlockCount(3*2352+10))
}

func TestDetect(t *testing.T) {
	t.Run("raw mode 1", func(t *testing.T) {
		buf := make([]byte, 2352)
		copy(buf, consts.CD_MODE1_SYNC[:])
		buf[15] = 0x01
		layout, err := Detect(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, RawCD, layout)
	})

	t.Run("mode 2 is not raw mode 1", func(t *testing.T) {
		buf := make([]byte, 2352)
		copy(buf, consts.CD_MODE1_SYNC[:])
		buf[15] = 0x02
		_, err := Detect(bytes.NewReader(buf))
		require.ErrorIs(t, err, ErrUnknownImageFormat)
	})

	t.Run("iso", func(t *testing.T) {
		buf := make([]byte, 2048)
		copy(buf, LabelSignature)
		layout, err := Detect(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, ISO, layout)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := Detect(bytes.NewReader(make([]byte, 2048)))
		require.ErrorIs(t, err, ErrUnknownImageFormat)
	})

	t.Run("short image", func(t *testing.T) {
		_, err := Detect(bytes.NewReader([]byte{0x01, 0x5A}))
		require.ErrorIs(t, err, ErrUnknownImageFormat)
	})
}

func TestFindLabel(t *testing.T) {
	t.Run("at start", func(t *testing.T) {
		buf := make([]byte, 4096)
		copy(buf, LabelSignature)
		pos, err := FindLabel(bytes.NewReader(buf), int64(len(buf)))
		require.NoError(t, err)
		require.Equal(t, int64(0), pos)
	})

	t.Run("across chunk boundary", func(t *testing.T) {
		buf := make([]byte, 3*scanChunkSize)
		at := scanChunkSize - 2
		copy(buf[at:], LabelSignature)
		pos, err := FindLabel(bytes.NewReader(buf), int64(len(buf)))
		require.NoError(t, err)
		require.Equal(t, int64(at), pos)
	})

	t.Run("partial signature is ignored", func(t *testing.T) {
		buf := make([]byte, 4096)
		copy(buf[100:], []byte{0x01, 0x5A, 0x5A, 0x5A, 0x5A, 0x00})
		copy(buf[2000:], LabelSignature)
		pos, err := FindLabel(bytes.NewReader(buf), int64(len(buf)))
		require.NoError(t, err)
		require.Equal(t, int64(2000), pos)
	})

	t.Run("not found", func(t *testing.T) {
		buf := make([]byte, 4096)
		_, err := FindLabel(bytes.NewReader(buf), int64(len(buf)))
		require.ErrorIs(t, err, ErrLabelNotFound)
	})
}
