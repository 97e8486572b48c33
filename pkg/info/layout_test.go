package info_test

import (
	"bytes"
	"testing"

	"github.com/bgrewell/opera-kit/internal/fixture"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/info"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b := fixture.NewBuilder("layout")
	b.ROMTags = []romtag.ROMTag{{SubSysType: romtag.RT_SUBSYS_RSANODE, Type: romtag.RSA_OS, Offset: 5, Size: 10}}
	b.Tree([]*fixture.Node{
		fixture.Dir("System", 1, fixture.File("Kernel", 2, make([]byte, 10))),
		fixture.File("LaunchMe", 3, make([]byte, 3000)),
	})
	s, err := b.Open(geometry.RawCD)
	require.NoError(t, err)
	tags, err := romtag.Scan(s, s.Label())
	require.NoError(t, err)

	l, err := info.Build(s, tags)
	require.NoError(t, err)

	require.Equal(t, int64(2352), l.DeviceBlockSize)
	require.Equal(t, int64(16), l.Label.LabelOffset)
	require.Equal(t, "layout", l.Label.LabelIdentifier)
	require.Equal(t, int64(2352+16), l.ROMTagTable.ROMTagTableOffset)
	require.Equal(t, 1, l.ROMTagTable.ROMTagTableCount)

	// Root directory at block 2, System at block 3.
	require.Len(t, l.DirectoryBlocks, 2)
	require.Equal(t, "/", l.DirectoryBlocks[0].DirectoryBlockPath)
	require.Equal(t, int64(2*2352+16), l.DirectoryBlocks[0].DirectoryBlockOffset)
	require.Equal(t, "/System", l.DirectoryBlocks[1].DirectoryBlockPath)

	require.Len(t, l.Files, 3)
	for i := 1; i < len(l.Files); i++ {
		require.Less(t, l.Files[i-1].FileOffset, l.Files[i].FileOffset)
	}

	l.AddFile("LaunchMe", l.Files[2].FileOffset, l.Files[2].FileLength, l.Files[2].FileAvatar, false)
	require.Len(t, l.Files, 3)

	var out bytes.Buffer
	l.Print(&out, true, false, true)
	require.Contains(t, out.String(), "Disc Label")
	require.Contains(t, out.String(), "System/Kernel (Avatar: 4)")
	require.Contains(t, l.PrettyJSON(), `"label_identifier": "layout"`)
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "    2048 B ", info.FormatSize(2048))
	require.Equal(t, "    1.50 MB", info.FormatSize(3*512*1024))
	require.Equal(t, "    2.00 GB", info.FormatSize(2*1024*1024*1024))
}
