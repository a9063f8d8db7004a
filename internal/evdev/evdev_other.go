//go:build !linux

package evdev

import (
	"errors"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

var ErrNoDevices = errors.New("input event devices are only available on Linux")

// Source is unavailable outside Linux.
type Source struct{}

// ListDevices always fails outside Linux.
func ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, ErrNoDevices
}

// NewSource returns a source whose Start always fails.
func NewSource(string, bool, int, contracts.Logger) *Source {
	return &Source{}
}

func (s *Source) Start(chan<- contracts.RawEvent) error {
	return ErrNoDevices
}

func (s *Source) Stop() error {
	return nil
}
