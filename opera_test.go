package opera_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	opera "github.com/bgrewell/opera-kit"
	"github.com/bgrewell/opera-kit/internal/fixture"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/identify"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/bgrewell/opera-kit/pkg/unpack"
	"github.com/stretchr/testify/require"
)

var tree = []*fixture.Node{
	fixture.Dir("System", 10,
		fixture.File("Kernel", 11, bytes.Repeat([]byte{0xAA}, 5000)),
		fixture.Dir("Tasks", 12, fixture.File("shell", 13, []byte("#!"))),
	),
	fixture.File("LaunchMe", 14, bytes.Repeat([]byte{0x55}, 2048)),
	fixture.File("AppStartup", 15, []byte("startup")),
}

func build(t *testing.T, layout geometry.Layout) []byte {
	t.Helper()
	b := fixture.NewBuilder("opera")
	b.ROMTags = []romtag.ROMTag{{SubSysType: romtag.RT_SUBSYS_RSANODE, Type: romtag.RSA_APPSPLASH, Offset: 1, Size: 1}}
	b.Tree(tree)
	return fixture.Frame(b.Bytes(), layout)
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	for name, layout := range map[string]geometry.Layout{"iso": geometry.ISO, "raw cd": geometry.RawCD} {
		t.Run(name, func(t *testing.T) {
			path := writeImage(t, "disc.img", build(t, layout))
			img, err := opera.Open(path)
			require.NoError(t, err)
			defer img.Close()

			require.Equal(t, "opera", img.Label().VolumeIdentifier())
			require.Equal(t, layout, img.Geometry().Layout)
			require.Equal(t, path, img.Location())
			require.False(t, img.IsROMFS())
			require.True(t, img.HasROMTags())
			require.Contains(t, img.String(), "opera")

			entries, err := img.Records("")
			require.NoError(t, err)
			require.NoError(t, fixture.Compare(entries, fixture.Truth(tree)))

			st, err := img.Stats()
			require.NoError(t, err)
			dirs, files := fixture.Count(tree)
			require.Equal(t, uint32(files), st.FileCount)
			require.Equal(t, uint32(dirs), st.DirectoryCount)
			require.Equal(t, uint64(5000+2+2048+7), st.TotalDataSize)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	_, err := opera.Open(filepath.Join(t.TempDir(), "missing.iso"))
	require.Error(t, err)

	path := writeImage(t, "junk.bin", make([]byte, 3*2352))
	_, err = opera.Open(path)
	require.ErrorIs(t, err, geometry.ErrLabelNotFound)
}

func TestImage_RecordsPrefix(t *testing.T) {
	data := build(t, geometry.ISO)
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.NoError(t, img.Close())

	entries, err := img.Records("/System/Tasks")
	require.NoError(t, err)
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"System/Tasks", "System/Tasks/shell"}, paths)
}

func TestImage_ForcedLayout(t *testing.T) {
	data := build(t, geometry.RawCD)
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)), option.WithLayout(geometry.RawCD))
	require.NoError(t, err)
	require.Equal(t, geometry.RawCD, img.Geometry().Layout)
}

func TestImage_ROMTagPatch(t *testing.T) {
	sizeOf := func(t *testing.T, tags []romtag.ROMTag, opts ...option.OpenOption) int64 {
		b := fixture.NewBuilder("patch")
		b.Tree([]*fixture.Node{fixture.File("rom", 1, make([]byte, 4096))})
		b.ROMTags = tags
		data := b.Bytes()
		img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
		require.NoError(t, err)
		entries, err := img.Records("")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		return entries[0].Size()
	}

	// The file data starts at block 3, two past the tag table block.
	rsa := []romtag.ROMTag{{SubSysType: romtag.RT_SUBSYS_RSANODE, Type: romtag.RSA_OS, Offset: 2, Size: 3000}}

	t.Run("rsa node tag", func(t *testing.T) {
		require.Equal(t, int64(3000), sizeOf(t, rsa))
	})

	t.Run("patching disabled", func(t *testing.T) {
		require.Equal(t, int64(4096), sizeOf(t, rsa, option.WithROMTagPatch(false)))
	})

	t.Run("system rom tag", func(t *testing.T) {
		tags := []romtag.ROMTag{{SubSysType: romtag.RT_SUBSYS_ROM, Type: romtag.ROM_FS_IMAGE, Offset: 2, Size: 7}}
		require.Equal(t, int64(4096), sizeOf(t, tags))
	})

	t.Run("zero size rsa node tag", func(t *testing.T) {
		tags := []romtag.ROMTag{{SubSysType: romtag.RT_SUBSYS_RSANODE, Type: romtag.RSA_OS, Offset: 2}}
		require.Equal(t, int64(4096), sizeOf(t, tags))
	})
}

func TestImage_Unpack(t *testing.T) {
	data := build(t, geometry.RawCD)
	var last string
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)),
		option.WithExtractionProgress(func(file string, _, _ int64, _, _ int) { last = file }))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "disc.unpacked")
	var seen []string
	require.NoError(t, img.Unpack(dst, unpack.Callback{
		Before: func(path string, _ *directory.Record) { seen = append(seen, path) },
	}))
	require.Len(t, seen, len(fixture.Truth(tree)))
	require.Equal(t, "AppStartup", last)

	got, err := os.ReadFile(filepath.Join(dst, "System", "Tasks", "shell"))
	require.NoError(t, err)
	require.Equal(t, []byte("#!"), got)
}

func TestImage_Identify(t *testing.T) {
	data := build(t, geometry.RawCD)
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	sig, err := identify.Signature(img.Stream())
	require.NoError(t, err)
	sig.Name = "Opera Test Disc"
	res, err := img.Identify(identify.NewTable([]identify.ID{sig}))
	require.NoError(t, err)
	require.Len(t, res.FullMatches, 1)
	require.Equal(t, "bin", res.ImageExtension)
}

func TestImage_Layout(t *testing.T) {
	data := build(t, geometry.ISO)
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	l, err := img.Layout()
	require.NoError(t, err)
	require.Len(t, l.DirectoryBlocks, 3)
	require.Len(t, l.Files, len(fixture.Truth(tree)))
	require.NotNil(t, l.ROMTagTable)
}

func TestImage_WriteISO(t *testing.T) {
	plain := build(t, geometry.ISO)
	raw := fixture.Frame(plain, geometry.RawCD)
	img, err := opera.OpenReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)

	var out bytes.Buffer
	var sectors []int64
	require.NoError(t, img.WriteISO(&out, func(sector, total int64) {
		sectors = append(sectors, sector)
		require.Equal(t, int64(len(plain)/2048), total)
	}))
	require.Equal(t, plain, out.Bytes())
	require.Len(t, sectors, len(plain)/2048)

	converted, err := opera.OpenReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	require.Equal(t, geometry.ISO, converted.Geometry().Layout)
	entries, err := converted.Records("")
	require.NoError(t, err)
	require.NoError(t, fixture.Compare(entries, fixture.Truth(tree)))
}

func TestImage_ROMFS(t *testing.T) {
	data := append([]byte{0xE1, 0xA0, 0x10, 0x01}, build(t, geometry.ISO)...)
	img, err := opera.OpenReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.True(t, img.IsROMFS())
	require.True(t, strings.HasPrefix(img.String(), "opera"))
}
