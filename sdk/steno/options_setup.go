package steno

import (
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// ErrNoOutput is returned when no HID sink was configured.
var ErrNoOutput = contracts.ErrNoOutput

// applyDefaultOptions fills EngineOptions fields left unset.
func applyDefaultOptions(opts ...contracts.EngineOption) (contracts.EngineOptions, error) {
	options := &contracts.EngineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Output == nil {
		return contracts.EngineOptions{}, ErrNoOutput
	}
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.ChordThreshold <= 0 {
		options.ChordThreshold = contracts.DefaultChordThreshold
	}
	if options.SilenceThreshold <= 0 {
		options.SilenceThreshold = contracts.DefaultSilenceThreshold
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
