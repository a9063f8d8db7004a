//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

var errUnavailable = errors.New("winmm MIDI is only available on Windows")

type unavailableClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a client whose operations all fail on non-Windows systems.
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
	m.logger.Warn("StartCapture called on unavailable winmm client")
}

func (m *unavailableClient) Stop() error {
	return nil
}
