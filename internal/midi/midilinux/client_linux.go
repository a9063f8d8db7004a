//go:build linux

package midilinux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midisteno/internal/midi"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"golang.org/x/sys/unix"
)

var (
	ErrNoMIDIDevices     = errors.New("no rawmidi devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNotConnected      = errors.New("no MIDI device selected")
)

// Client reads a MIDI byte stream from an ALSA rawmidi device node.
type Client struct {
	logger  contracts.Logger
	filter  *contracts.MIDIEventFilter
	pattern string

	mu           sync.Mutex
	file         *os.File
	path         string
	eventChannel atomic.Value
	wg           sync.WaitGroup
}

// NewMIDIClient creates a rawmidi client discovering devices with options.RawMIDIConfig.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &Client{
		logger:  options.Logger,
		filter:  options.MIDIEventFilter,
		pattern: options.RawMIDIConfig.DevicePattern,
	}, nil
}

func (m *Client) devicePaths() ([]string, error) {
	paths, err := filepath.Glob(m.pattern)
	if err != nil {
		return nil, fmt.Errorf("bad rawmidi pattern %q: %w", m.pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ListDevices returns the rawmidi nodes matching the configured pattern.
func (m *Client) ListDevices() ([]contracts.DeviceInfo, error) {
	paths, err := m.devicePaths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoMIDIDevices
	}
	devices := make([]contracts.DeviceInfo, len(paths))
	for i, p := range paths {
		devices[i] = contracts.DeviceInfo{Name: cardName(p), EntityName: filepath.Base(p), Path: p}
	}
	return devices, nil
}

// cardName reads the ALSA card id for a node such as /dev/snd/midiC1D0.
func cardName(path string) string {
	var card, dev int
	if _, err := fmt.Sscanf(filepath.Base(path), "midiC%dD%d", &card, &dev); err != nil {
		return filepath.Base(path)
	}
	b, err := os.ReadFile(fmt.Sprintf("/proc/asound/card%d/id", card))
	if err != nil || len(b) == 0 {
		return filepath.Base(path)
	}
	return string(b[:len(b)-1])
}

// SelectDevice opens the node at index deviceID for reading.
func (m *Client) SelectDevice(deviceID int) error {
	paths, err := m.devicePaths()
	if err != nil {
		return err
	}
	if deviceID < 0 || deviceID >= len(paths) {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file != nil {
		m.file.Close()
		m.file = nil
	}

	// Non-blocking descriptors go through the runtime poller, so Close
	// interrupts a pending Read.
	fd, err := unix.Open(paths[deviceID], unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", paths[deviceID], err)
	}
	m.file = os.NewFile(uintptr(fd), paths[deviceID])
	m.path = paths[deviceID]
	m.logger.Info("MIDI device connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("path", m.path))
	return nil
}

// StartCapture reads the device in a goroutine and forwards allowed events.
func (m *Client) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		m.logger.Error(ErrNotConnected.Error())
		return
	}
	m.eventChannel.Store(eventChannel)
	m.wg.Add(1)
	go m.read(m.file)
	m.logger.Info("MIDI capture started", m.logger.Field().String("path", m.path))
}

func (m *Client) read(f *os.File) {
	defer m.wg.Done()
	var parser midi.Parser
	buf := make([]byte, 256)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			ch, _ := m.eventChannel.Load().(chan contracts.MIDI)
			parser.Feed(buf[:n], time.Now(), func(event contracts.MIDI) {
				if !m.filter.Allows(event.Command) {
					return
				}
				select {
				case ch <- event:
				default:
					m.logger.Warn("MIDI event channel is full; event discarded")
				}
			})
		}
		if err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				m.logger.Error("MIDI read failed", m.logger.Field().Error("error", err))
			}
			return
		}
	}
}

// Stop closes the device and waits for the reader to exit.
func (m *Client) Stop() error {
	m.mu.Lock()
	f := m.file
	m.file = nil
	m.mu.Unlock()
	if f == nil {
		return nil
	}
	err := f.Close()
	m.wg.Wait()
	m.logger.Info("MIDI capture stopped")
	return err
}
