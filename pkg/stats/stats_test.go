package stats_test

import (
	"testing"

	"github.com/bgrewell/opera-kit/internal/fixture"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/stats"
	"github.com/bgrewell/opera-kit/pkg/walker"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *fixture.Builder)
		files     uint32
		dirs      uint32
		totalSize uint64
	}{
		{
			name:  "empty root",
			build: func(b *fixture.Builder) { b.Tree(nil) },
		},
		{
			name: "directories do not count as data",
			build: func(b *fixture.Builder) {
				b.Tree([]*fixture.Node{
					fixture.Dir("a", 1,
						fixture.File("x", 2, make([]byte, 100)),
						fixture.Dir("b", 3, fixture.File("y", 4, make([]byte, 5000))),
					),
					fixture.File("z", 5, make([]byte, 1)),
				})
			},
			files:     3,
			dirs:      2,
			totalSize: 5101,
		},
		{
			name: "linked memory",
			build: func(b *fixture.Builder) {
				b.LinkedMem([]*fixture.Node{
					fixture.File("one", 1, make([]byte, 10)),
					fixture.File("two", 2, make([]byte, 20)),
					fixture.File("three", 3, make([]byte, 30)),
				})
			},
			files:     3,
			totalSize: 60,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixture.NewBuilder("stats")
			tt.build(b)
			s, err := b.Open(geometry.RawCD)
			require.NoError(t, err)

			c, err := stats.Collect(walker.New(s))
			require.NoError(t, err)
			require.Equal(t, tt.files, c.FileCount)
			require.Equal(t, tt.dirs, c.DirectoryCount)
			require.Equal(t, tt.totalSize, c.TotalDataSize)
		})
	}
}
