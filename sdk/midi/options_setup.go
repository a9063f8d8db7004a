package midi

import (
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	// Steno chords only need key transitions.
	if options.MIDIEventFilter == nil {
		options.MIDIEventFilter = &contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "midisteno"}
	}
	if options.RawMIDIConfig == nil {
		options.RawMIDIConfig = &contracts.RawMIDIConfig{DevicePattern: "/dev/snd/midiC*D*"}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
