// Package steno exposes the chord decoding engine.
package steno

import (
	"github.com/leandrodaf/midisteno/internal/engine"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// NewEngine creates a chord decoding engine with the specified options.
// It applies default options before building the engine; an HID output is required.
func NewEngine(opts ...contracts.EngineOption) (*engine.Engine, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return engine.New(&options)
}
