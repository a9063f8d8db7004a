package contracts

import "time"

// RawEvent is a single key transition delivered by an input source.
// Key is the note number for MIDI sources and the scancode for keyboards.
type RawEvent struct {
	Key       int
	Down      bool
	Velocity  int // 0-127; sources without velocity supply a constant.
	Timestamp time.Time
}

// Stress ranks attached to decoded symbols.
const (
	StressNone      = -1
	StressSecondary = 0
	StressPrimary   = 1
)

// Symbol is one decoded phoneme together with the velocity used to rank its stress.
type Symbol struct {
	Phoneme  string
	Velocity float64
	Stress   int
}

// KeyAction is a single press (Value 1) or release (Value 0) of an output code.
type KeyAction struct {
	Code  uint16
	Value uint8
}

// EVKey is the Linux input event type for key transitions.
const EVKey uint8 = 0x01

// HIDOutput receives translated key actions. Delivery is fire and forget:
// implementations report their own failures through logging.
type HIDOutput interface {
	SendEvent(keyType uint8, code uint16, value uint8)
}

// EventSource delivers raw key events from a physical input device.
type EventSource interface {
	Start(events chan<- RawEvent) error
	Stop() error
}
