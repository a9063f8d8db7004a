package contracts

import (
	"errors"
	"time"
)

// Default timing for chord segmentation.
const (
	DefaultChordThreshold   = 500 * time.Millisecond
	DefaultSilenceThreshold = 550 * time.Millisecond
)

// ErrNoOutput is returned when an engine is built without an HID sink.
var ErrNoOutput = errors.New("no HID output configured")

// EngineOptions configures the chord decoding engine.
type EngineOptions struct {
	Logger           Logger
	LogLevel         LogLevel
	Output           HIDOutput     // Sink receiving translated key actions.
	ChordThreshold   time.Duration // Age after which a buffered release no longer joins a chord.
	SilenceThreshold time.Duration // Inter-chord silence that ends a word.
	Left             []int         // Initial left-hand layout; defaults apply when nil.
	Right            []int         // Initial right-hand layout; defaults apply when nil.
}

// EngineOption is a function that modifies EngineOptions.
type EngineOption func(*EngineOptions)

// WithEngineLogger sets the logger used by the engine.
func WithEngineLogger(l Logger) EngineOption {
	return func(opts *EngineOptions) {
		opts.Logger = l
	}
}

// WithEngineLogLevel sets the engine logging level.
func WithEngineLogLevel(level LogLevel) EngineOption {
	return func(opts *EngineOptions) {
		opts.LogLevel = level
	}
}

// WithOutput sets the HID sink.
func WithOutput(out HIDOutput) EngineOption {
	return func(opts *EngineOptions) {
		opts.Output = out
	}
}

// WithChordThreshold overrides the release buffering window.
func WithChordThreshold(d time.Duration) EngineOption {
	return func(opts *EngineOptions) {
		opts.ChordThreshold = d
	}
}

// WithSilenceThreshold overrides the word segmentation gap.
func WithSilenceThreshold(d time.Duration) EngineOption {
	return func(opts *EngineOptions) {
		opts.SilenceThreshold = d
	}
}

// WithLayout sets the key identifiers of both hands, ordered by position.
func WithLayout(left, right []int) EngineOption {
	return func(opts *EngineOptions) {
		opts.Left = append([]int(nil), left...)
		opts.Right = append([]int(nil), right...)
	}
}
