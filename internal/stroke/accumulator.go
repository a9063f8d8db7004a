// Package stroke buffers decoded symbols until a silence gap ends the word.
package stroke

import (
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// State of the accumulator.
type State int

const (
	Idle State = iota
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Accumulator collects the symbols of consecutive strokes. Strokes closer
// together than the silence threshold belong to the same word.
type Accumulator struct {
	silence    time.Duration
	buf        []contracts.Symbol
	lastStroke time.Time
}

// NewAccumulator returns an accumulator that flushes after silence.
func NewAccumulator(silence time.Duration) *Accumulator {
	return &Accumulator{silence: silence}
}

// Add appends a stroke's symbols. An empty stroke still restarts the silence window.
func (a *Accumulator) Add(now time.Time, symbols ...contracts.Symbol) {
	a.buf = append(a.buf, symbols...)
	a.lastStroke = now
}

// State reports whether symbols are waiting to be flushed.
func (a *Accumulator) State() State {
	if len(a.buf) == 0 {
		return Idle
	}
	return Accumulating
}

// Pending returns the number of buffered symbols.
func (a *Accumulator) Pending() int {
	return len(a.buf)
}

// Tick returns the buffered word once the silence threshold has passed since
// the last stroke, leaving the accumulator idle.
func (a *Accumulator) Tick(now time.Time) ([]contracts.Symbol, bool) {
	if len(a.buf) == 0 || now.Sub(a.lastStroke) < a.silence {
		return nil, false
	}
	return a.Flush()
}

// Flush returns the buffered word regardless of timing. It reports false
// when nothing was buffered.
func (a *Accumulator) Flush() ([]contracts.Symbol, bool) {
	if len(a.buf) == 0 {
		return nil, false
	}
	word := a.buf
	a.buf = nil
	return word, true
}
