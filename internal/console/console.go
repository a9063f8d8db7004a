// Package console turns single key presses on the terminal into loop commands.
package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/leandrodaf/midisteno/internal/engine"
	"golang.org/x/term"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// Bindings maps a key to the command it triggers.
var Bindings = map[byte]engine.Command{
	'c':      engine.CommandCalibrate,
	'x':      engine.CommandClearLayout,
	'f':      engine.CommandFlush,
	'q':      engine.CommandQuit,
	keyEsc:   engine.CommandQuit,
	keyCtrlC: engine.CommandQuit,
}

// Help describes the bindings for the startup banner.
const Help = "c: calibrate  x: clear layout  f: flush  q: quit"

// MakeRaw puts f into raw mode when it is a terminal. The returned func
// restores the previous state and is never nil.
func MakeRaw(f *os.File) (restore func(), err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// Read forwards the command bound to each key read from r until r ends, ctx
// is cancelled or a quit command was sent. Unbound keys are ignored.
func Read(ctx context.Context, r io.Reader, out chan<- engine.Command) error {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		cmd, ok := Bindings[b]
		if !ok {
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
		if cmd == engine.CommandQuit {
			return nil
		}
	}
}

// RawWriter translates "\n" to "\r\n" for output written while the terminal
// is in raw mode.
type RawWriter struct {
	W io.Writer
}

func (r RawWriter) Write(p []byte) (int, error) {
	if _, err := r.W.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
