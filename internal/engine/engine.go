// Package engine wires the chord pipeline: hand splitting, chord collection,
// decoding, word accumulation and macro output.
package engine

import (
	"time"

	"github.com/leandrodaf/midisteno/internal/chord"
	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/internal/macro"
	"github.com/leandrodaf/midisteno/internal/stroke"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Engine owns all pipeline state. It is not safe for concurrent use; a single
// control loop drives it.
type Engine struct {
	logger     contracts.Logger
	hands      *hand.Splitter
	collector  *chord.Collector
	decoder    *chord.Decoder
	words      *stroke.Accumulator
	translator *macro.Translator
}

// New builds an engine from fully defaulted options.
func New(opts *contracts.EngineOptions) (*Engine, error) {
	if opts.Output == nil {
		return nil, contracts.ErrNoOutput
	}
	layout := hand.DefaultLayout()
	if opts.Left != nil || opts.Right != nil {
		l, err := hand.NewLayout(opts.Left, opts.Right)
		if err != nil {
			return nil, err
		}
		layout = l
	}
	hands := hand.NewSplitter(layout, opts.Logger)
	return &Engine{
		logger:     opts.Logger,
		hands:      hands,
		collector:  chord.NewCollector(opts.ChordThreshold),
		decoder:    chord.NewDecoder(hands),
		words:      stroke.NewAccumulator(opts.SilenceThreshold),
		translator: macro.NewTranslator(opts.Output, opts.Logger),
	}, nil
}

// HandleEvent feeds one raw key transition through the pipeline. A chord
// decoded by this event is buffered until Tick sees the word end.
func (e *Engine) HandleEvent(ev contracts.RawEvent) {
	if e.hands.Calibrating() {
		if ev.Down && e.hands.Learn(ev.Key) {
			e.collector.Reset()
		}
		return
	}
	if _, _, ok := e.hands.Classify(ev.Key); !ok {
		return
	}

	if ev.Down {
		e.collector.KeyDown(ev.Key, ev.Velocity, ev.Timestamp)
		return
	}
	released, closed, err := e.collector.KeyUp(ev.Key, ev.Timestamp)
	if err != nil {
		e.logger.Debug("Ignoring key release", e.logger.Field().Error("error", err))
		return
	}
	if !closed {
		return
	}
	st := e.decoder.Decode(released)
	e.logger.Debug("Chord decoded",
		e.logger.Field().String("right", st.Right.String()),
		e.logger.Field().String("left", st.Left.String()),
		e.logger.Field().Int("symbols", len(st.Symbols)))
	e.words.Add(ev.Timestamp, st.Symbols...)
}

// Tick sends the buffered word once the silence threshold has elapsed.
// It reports whether a word was sent.
func (e *Engine) Tick(now time.Time) bool {
	word, ok := e.words.Tick(now)
	if !ok {
		return false
	}
	e.translator.Send(word)
	return true
}

// Flush sends any buffered word immediately.
func (e *Engine) Flush() bool {
	word, ok := e.words.Flush()
	if !ok {
		return false
	}
	e.translator.Send(word)
	return true
}

// StartCalibration begins learning a new layout from the next twelve distinct
// keys pressed. Held keys and any partial chord are dropped.
func (e *Engine) StartCalibration() {
	e.collector.Reset()
	e.hands.StartCalibration()
}

// ClearLayout abandons calibration and restores the default layout.
func (e *Engine) ClearLayout() {
	e.collector.Reset()
	e.hands.Reset()
}

// UseLayout replaces the active layout.
func (e *Engine) UseLayout(l hand.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	e.collector.Reset()
	e.hands.Use(l)
	return nil
}

// Calibrating reports whether a calibration is in progress.
func (e *Engine) Calibrating() bool {
	return e.hands.Calibrating()
}

// Layout returns the active hand layout.
func (e *Engine) Layout() hand.Layout {
	return e.hands.Layout()
}

// Pending returns the number of decoded symbols waiting for the word to end.
func (e *Engine) Pending() int {
	return e.words.Pending()
}
