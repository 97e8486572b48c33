package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleLogSink_DefaultWriter(t *testing.T) {
	s := NewSimpleLogSink(nil, 1, false)
	require.Equal(t, os.Stderr, s.writer)
}

func TestSimpleLogSink_Enabled(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, LEVEL_DEBUG, false)
	require.True(t, s.Enabled(LEVEL_INFO))
	require.True(t, s.Enabled(LEVEL_DEBUG))
	require.False(t, s.Enabled(LEVEL_TRACE))
}

func TestSimpleLogSink_Info(t *testing.T) {
	t.Run("plain labels without color", func(t *testing.T) {
		buf := &bytes.Buffer{}
		s := NewSimpleLogSink(buf, LEVEL_TRACE, false)
		s.Info(LEVEL_INFO, "label found", "position", 16)
		s.Info(LEVEL_DEBUG, "geometry", "layout", "16/2048/288")
		s.Info(LEVEL_TRACE, "record")

		out := buf.String()
		require.Contains(t, out, "[INFO] label found\n")
		require.Contains(t, out, "  position: 16\n")
		require.Contains(t, out, "[DEBUG] geometry\n")
		require.Contains(t, out, "[TRACE] record\n")
	})

	t.Run("suppressed above verbosity", func(t *testing.T) {
		buf := &bytes.Buffer{}
		s := NewSimpleLogSink(buf, LEVEL_INFO, false)
		s.Info(LEVEL_DEBUG, "hidden", "foo", "bar")
		require.Zero(t, buf.Len())
	})

	t.Run("non string key", func(t *testing.T) {
		buf := &bytes.Buffer{}
		s := NewSimpleLogSink(buf, LEVEL_INFO, false)
		s.Info(LEVEL_INFO, "odd", 123, "value")
		require.Contains(t, buf.String(), "key0: value")
	})
}

func TestSimpleLogSink_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_INFO, false)
	s.Error(errors.New("short read"), "walk aborted", "path", "/Launchme")

	out := buf.String()
	require.Contains(t, out, "[ERROR] walk aborted")
	require.Contains(t, out, "path: /Launchme")
	require.Contains(t, out, "error: short read")
}

func TestSimpleLogSink_Derived(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_DEBUG, false)

	chain := s.WithName("stream").WithName("setup").WithValues("image", "disc.iso").(*SimpleLogSink)
	chain.Info(LEVEL_DEBUG, "detected")

	out := buf.String()
	require.Contains(t, out, "[DEBUG] [stream.setup] detected")
	require.Contains(t, out, "image: disc.iso")
	require.False(t, chain.useColor)
	require.Equal(t, LEVEL_DEBUG, chain.minVerbosity)
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(NewSimpleLogger(buf, LEVEL_DEBUG, false))
	l.Info("info")
	l.Debug("debug")
	l.Trace("trace")
	l.WithName("walker").Error(errors.New("boom"), "failed")

	out := buf.String()
	require.Contains(t, out, "[INFO] info")
	require.Contains(t, out, "[DEBUG] debug")
	require.False(t, strings.Contains(out, "trace"))
	require.Contains(t, out, "[ERROR] [walker] failed")

	var nilLogger *Logger
	require.NotPanics(t, func() { nilLogger.Info("ignored") })
	require.NotPanics(t, func() { DefaultLogger().Debug("ignored") })
}
