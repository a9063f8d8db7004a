package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midisteno/internal/midi/mididarwin"
	"github.com/leandrodaf/midisteno/internal/midi/midilinux"
	"github.com/leandrodaf/midisteno/internal/midi/midiwindows"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI client.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// clientInitializers maps OS names to corresponding MIDI client initializers.
var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,  // CoreMIDI.
	"windows": midiwindows.NewMIDIClient, // winmm.
	"linux":   midilinux.NewMIDIClient,   // ALSA rawmidi device nodes.
}

// NewClient initializes a MIDI client based on the current operating system,
// returning ErrUnsupportedOS when none is available.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
