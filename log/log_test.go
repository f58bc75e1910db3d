package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*SimpleLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger()
	l.SetOutput(buf)
	l.SetFormatFunc(DisableTimestampFormatFunc)
	l.SetLevel(level)
	return l, buf
}

func TestSimpleLoggerLevel(t *testing.T) {
	l, buf := newBufferLogger(Info)
	l.Debug("hidden")
	l.Info("shown")
	l.Error("failed")
	require.Equal(t, "[Info] shown\n[Error] failed\n", buf.String())

	buf.Reset()
	l.SetDebug(true)
	l.Debug("visible")
	require.Equal(t, "[Debug] visible\n", buf.String())
}

func TestTagLogger(t *testing.T) {
	l, buf := newBufferLogger(Info)
	NewTagLogger(NewTagLogger(l, "core"), "source/mqtt").Warn("reconnect")
	require.Equal(t, "[Warn] [core] [source/mqtt] reconnect\n", buf.String())
}

func TestContextLogger(t *testing.T) {
	l, buf := newBufferLogger(Info)
	cl := NewTagContextLogger(NewContextLogger(l), "ipset")

	cl.InfoContext(context.Background(), "no tag")
	require.Equal(t, "[Info] [ipset] no tag\n", buf.String())

	buf.Reset()
	ctx := AddContextTag(context.Background())
	id := GetContextTag(ctx)
	require.Len(t, id, 8)
	cl.InfoContext(ctx, "tagged")
	line := buf.String()
	require.True(t, strings.HasPrefix(line, "[Info] ["+id+" "), line)
	require.True(t, strings.HasSuffix(line, "[ipset] tagged\n"), line)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARNING")
	require.NoError(t, err)
	require.Equal(t, Warn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, Info, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}
