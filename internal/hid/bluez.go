// Package hid delivers key actions to the paired host.
package hid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// BlueZ names of the GenericHID keyboard profile.
const (
	bluezService        = "org.bluez"
	managerInterface    = "org.bluez.Manager"
	genericHIDInterface = "org.bluez.GenericHID"
	hidInputInterface   = "org.bluez.GenericHIDInput"

	DefaultInputPath = "/org/bluez/input/hci0/device1"
)

var ErrNotConnected = errors.New("BlueZ HID output is closed")

// busObject is the subset of dbus.BusObject the sink calls.
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// BlueZ sends key events through the BlueZ GenericHIDInput D-Bus interface.
type BlueZ struct {
	logger  contracts.Logger
	conn    *dbus.Conn
	input   busObject
	adapter busObject
	signals chan *dbus.Signal

	mu      sync.Mutex
	failing bool
	wg      sync.WaitGroup
}

// BlueZOptions configures the D-Bus sink.
type BlueZOptions struct {
	InputPath string // Object path of the GenericHIDInput device.
	Activate  bool   // Activate the adapter's keyboard device class for the session.
}

// DialBlueZ connects to the system bus. With Activate set the default
// adapter's GenericHID profile is activated until Close.
func DialBlueZ(opts BlueZOptions, logger contracts.Logger) (*BlueZ, error) {
	if opts.InputPath == "" {
		opts.InputPath = DefaultInputPath
	}
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	b := &BlueZ{
		logger: logger,
		conn:   conn,
		input:  conn.Object(bluezService, dbus.ObjectPath(opts.InputPath)),
	}

	var adapterPath dbus.ObjectPath
	if err := conn.Object(bluezService, "/").Call(managerInterface+".DefaultAdapter", 0).Store(&adapterPath); err != nil {
		logger.Warn("No default Bluetooth adapter; connection events will not be reported", logger.Field().Error("error", err))
	} else {
		b.adapter = conn.Object(bluezService, adapterPath)
		if opts.Activate {
			if err := b.adapter.Call(genericHIDInterface+".Activate", 0).Err; err != nil {
				conn.Close()
				return nil, fmt.Errorf("activate keyboard device class: %w", err)
			}
			logger.Info("Activated keyboard device class", logger.Field().String("adapter", string(adapterPath)))
		}
	}

	b.watch(opts.InputPath)
	return b, nil
}

// watch logs connection lifecycle signals from the adapter and device.
func (b *BlueZ) watch(inputPath string) {
	matches := [][]dbus.MatchOption{
		{dbus.WithMatchInterface(genericHIDInterface)},
		{dbus.WithMatchInterface(hidInputInterface), dbus.WithMatchObjectPath(dbus.ObjectPath(inputPath))},
	}
	for _, m := range matches {
		if err := b.conn.AddMatchSignal(m...); err != nil {
			b.logger.Warn("Failed to subscribe to BlueZ signals", b.logger.Field().Error("error", err))
		}
	}
	b.signals = make(chan *dbus.Signal, 16)
	b.conn.Signal(b.signals)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for sig := range b.signals {
			b.logger.Info("HID connection event",
				b.logger.Field().String("signal", sig.Name),
				b.logger.Field().String("path", string(sig.Path)))
		}
	}()
}

// SendEvent forwards one key action. Failures are logged once per outage;
// nothing is retried.
func (b *BlueZ) SendEvent(keyType uint8, code uint16, value uint8) {
	err := b.input.Call(hidInputInterface+".SendEvent", 0, keyType, code, value).Err

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		if !b.failing {
			b.logger.Error("Failed to send HID event",
				b.logger.Field().Uint8("type", keyType),
				b.logger.Field().Int("code", int(code)),
				b.logger.Field().Uint8("value", value),
				b.logger.Field().Error("error", err))
		}
		b.failing = true
		return
	}
	if b.failing {
		b.logger.Info("HID delivery recovered")
		b.failing = false
	}
}

// Close deactivates the keyboard profile if it was activated and closes the bus.
func (b *BlueZ) Close(deactivate bool) error {
	if b.conn == nil {
		return ErrNotConnected
	}
	if deactivate && b.adapter != nil {
		if err := b.adapter.Call(genericHIDInterface+".Deactivate", 0).Err; err != nil {
			b.logger.Warn("Failed to deactivate keyboard device class", b.logger.Field().Error("error", err))
		} else {
			b.logger.Info("Deactivated keyboard device class")
		}
	}
	b.conn.RemoveSignal(b.signals)
	close(b.signals)
	b.wg.Wait()
	err := b.conn.Close()
	b.conn = nil
	return err
}
