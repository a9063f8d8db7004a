//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"golang.org/x/sys/windows"
)

// hMIDIIn is a winmm MIDI input handle.
type hMIDIIn windows.Handle

// midiInOpen flags.
const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

// Messages delivered to the input callback.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

var (
	ErrNoMIDIDevices = errors.New("no MIDI devices found")
	ErrNotConnected  = errors.New("no MIDI device selected")
)

// midiInCaps mirrors MIDIINCAPSW.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// The callback is created once; winmm passes the client back through dwInstance.
var inputCallback = windows.NewCallback(midiInCallback)

// Client reads note events from a winmm MIDI input device.
type Client struct {
	logger       contracts.Logger
	filter       *contracts.MIDIEventFilter
	eventChannel atomic.Value

	mu     sync.Mutex
	handle hMIDIIn
	open   bool
}

// NewMIDIClient creates a winmm MIDI client.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return &Client{
		logger: options.Logger,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists winmm input devices in index order.
func (m *Client) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	count := uint32(r0)
	if count == 0 {
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, count)
	for i := uint32(0); i < count; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			m.logger.Warn("Failed to query MIDI device", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// SelectDevice opens the device at index deviceID, closing any previous one.
func (m *Client) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		if err := m.close(); err != nil {
			return fmt.Errorf("failed to close previous MIDI device: %w", err)
		}
	}

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		inputCallback,
		uintptr(unsafe.Pointer(m)),
		uintptr(callbackFunction|midiIOStatus),
	)
	if r1 != 0 {
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	m.open = true
	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture starts the device and delivers events to eventChannel.
func (m *Client) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		m.logger.Error(ErrNotConnected.Error())
		return
	}
	m.eventChannel.Store(eventChannel)

	if r1, _, err := procMidiInStart.Call(uintptr(m.handle)); r1 != 0 {
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
		return
	}
	m.logger.Info("MIDI capture started")
}

// midiInCallback runs on a winmm thread for every input message.
func midiInCallback(_ uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, _ uintptr) uintptr {
	m := (*Client)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case mimData:
		status := byte(dwParam1 & 0xFF)
		if !m.filter.Allows(status) {
			return 0
		}
		event := contracts.MIDI{
			Timestamp: uint64(time.Now().UnixNano()),
			Command:   status,
			Note:      byte((dwParam1 >> 8) & 0x7F),
			Velocity:  byte((dwParam1 >> 16) & 0x7F),
		}
		if ch, ok := m.eventChannel.Load().(chan contracts.MIDI); ok && ch != nil {
			select {
			case ch <- event:
			default:
				m.logger.Warn("MIDI event channel is full; event discarded")
			}
		}
	case mimOpen, mimClose, mimMoreData:
	case mimError, mimLongError:
		m.logger.Error("MIDI input error", m.logger.Field().Int("message", int(wMsg)))
	}
	return 0
}

// Stop stops capture and closes the device.
func (m *Client) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil
	}
	if err := m.close(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	m.logger.Info("MIDI capture stopped")
	return nil
}

func (m *Client) close() error {
	if r1, _, err := procMidiInStop.Call(uintptr(m.handle)); r1 != 0 {
		return err
	}
	if r1, _, err := procMidiInClose.Call(uintptr(m.handle)); r1 != 0 {
		return err
	}
	m.open = false
	m.handle = 0
	m.eventChannel.Store(make(chan contracts.MIDI))
	return nil
}
