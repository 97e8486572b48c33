package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFourCC(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want string
	}{
		{"directory", 0x2a646972, "*dir"},
		{"label", 0x2a6c626c, "*lbl"},
		{"catapult", 0x2a7a6170, "*zap"},
		{"non printable bytes", 0x41000142, "A  B"},
		{"zero", 0, "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FourCC(tt.in))
		})
	}
}

func TestPrintable(t *testing.T) {
	require.Equal(t, "Launch.Me", Printable("Launch\x01Me"))
	require.Equal(t, "plain", Printable("plain"))
}

func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"System/Kernel", "", true},
		{"System/Kernel", "System", true},
		{"System/Kernel", "/System/", true},
		{"System/Kernel", "System/Kernel", true},
		{"SystemData/x", "System", false},
		{"System", "System/Kernel", false},
		{"AppStartup", "System", false},
	}
	for _, tt := range tests {
		t.Run(tt.path+"|"+tt.prefix, func(t *testing.T) {
			require.Equal(t, tt.want, HasPathPrefix(tt.path, tt.prefix))
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	require.Equal(t, "game.iso", ReplaceExtension("game.bin", ".iso"))
	require.Equal(t, "dir.v2/game.iso", ReplaceExtension("dir.v2/game", ".iso"))
	require.Equal(t, "/tmp/.hidden.iso", ReplaceExtension("/tmp/.hidden", ".iso"))
	require.Equal(t, "a.b.iso", ReplaceExtension("a.b.c", ".iso"))
}
