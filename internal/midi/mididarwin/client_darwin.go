//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midisteno/internal/midi"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// portConnection is the part of a CoreMIDI port connection used here.
type portConnection interface {
	Disconnect()
}

// Client reads note events from a CoreMIDI source. CoreMIDI invokes the
// packet callback on its own thread, so the event channel is held atomically.
type Client struct {
	logger       contracts.Logger
	filter       *contracts.MIDIEventFilter
	client       coremidi.Client
	inputPort    coremidi.InputPort
	portConn     portConnection
	eventChannel atomic.Value

	mu        sync.Mutex
	parser    midi.Parser
	capturing bool
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewMIDIClient creates a CoreMIDI client named after options.CoreMIDIConfig.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("CoreMIDI client created", options.Logger.Field().String("name", options.CoreMIDIConfig.ClientName))

	return &Client{
		logger: options.Logger,
		client: client,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices returns every CoreMIDI source.
func (m *Client) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at index deviceID, replacing any previous connection.
func (m *Client) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.inputPort, err = coremidi.NewInputPort(m.client, "midisteno input", m.handlePacket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))
	return nil
}

// handlePacket parses every message in a CoreMIDI packet and forwards the allowed ones.
func (m *Client) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	eventChannel, _ := m.eventChannel.Load().(chan contracts.MIDI)
	if eventChannel == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.parser.Feed(packet.Data, time.Now(), func(event contracts.MIDI) {
		if !m.filter.Allows(event.Command) {
			return
		}
		select {
		case eventChannel <- event:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event", m.logger.Field().Uint8("note", event.Note))
		}
	})
}

// StartCapture starts delivering events to eventChannel.
func (m *Client) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	if m.capturing {
		m.logger.Warn("Capture already started; switching channel")
	}

	m.eventChannel.Store(eventChannel)
	m.capturing = true
	m.logger.Info("MIDI capture started")
}

// Stop disconnects the source and waits for in-flight packets. Later calls do nothing.
func (m *Client) Stop() error {
	m.stopOnce.Do(func() {
		// A fresh unread channel keeps late callbacks from writing to the caller's.
		m.eventChannel.Store(make(chan contracts.MIDI))

		m.mu.Lock()
		conn := m.portConn
		m.portConn = nil
		m.capturing = false
		m.mu.Unlock()

		// Callbacks take mu, so disconnect without holding it.
		if conn != nil {
			conn.Disconnect()
		}

		m.wg.Wait()
		m.logger.Info("MIDI capture stopped")
	})
	return nil
}
