package midi

import (
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// NewMIDIClient creates a MIDI client for the current platform with the
// specified options applied over the defaults.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	return NewClient(&options)
}
