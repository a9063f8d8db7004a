//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

var errUnavailable = errors.New("CoreMIDI is only available on macOS")

type unavailableClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a client whose operations all fail on non-macOS systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &unavailableClient{logger: options.Logger}, nil
}

func (m *unavailableClient) ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, errUnavailable
}

func (m *unavailableClient) SelectDevice(int) error {
	return errUnavailable
}

func (m *unavailableClient) StartCapture(chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on unavailable CoreMIDI client")
}

func (m *unavailableClient) Stop() error {
	return nil
}
