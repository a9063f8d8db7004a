package console

import (
	"context"
	"strings"
	"testing"

	"github.com/leandrodaf/midisteno/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) []engine.Command {
	t.Helper()
	out := make(chan engine.Command, 16)
	require.NoError(t, Read(context.Background(), strings.NewReader(input), out))
	close(out)

	var got []engine.Command
	for cmd := range out {
		got = append(got, cmd)
	}
	return got
}

func TestReadMapsBoundKeys(t *testing.T) {
	got := collect(t, "c?xf")
	assert.Equal(t, []engine.Command{
		engine.CommandCalibrate,
		engine.CommandClearLayout,
		engine.CommandFlush,
	}, got)
}

func TestReadStopsAfterQuit(t *testing.T) {
	for _, quit := range []string{"q", "\x1b", "\x03"} {
		got := collect(t, "f"+quit+"c")
		assert.Equal(t, []engine.Command{engine.CommandFlush, engine.CommandQuit}, got)
	}
}

func TestReadHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Read(ctx, strings.NewReader("c"), make(chan engine.Command))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRawWriter(t *testing.T) {
	var buf strings.Builder
	n, err := RawWriter{W: &buf}.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}
