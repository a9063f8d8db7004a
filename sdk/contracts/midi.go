package contracts

import "time"

// MIDI represents a MIDI event with a timestamp, command, note, and velocity.
type MIDI struct {
	Timestamp uint64 // Nanoseconds since the Unix epoch at which the event was received.
	Command   byte   // Status byte; the high nibble is the command, the low nibble the channel.
	Note      byte   // MIDI note number (0-127), used as the steno key identifier.
	Velocity  byte   // Strength of the key press (0-127).
}

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}

// RawEvent converts a note message into a key event. NoteOn with velocity
// zero is a release, as running-status keyboards send it in place of NoteOff.
// Any other command yields ok == false. The timestamp is the client's
// wall-clock reading.
func (m MIDI) RawEvent() (ev RawEvent, ok bool) {
	ev = RawEvent{
		Key:       int(m.Note),
		Velocity:  int(m.Velocity),
		Timestamp: time.Unix(0, int64(m.Timestamp)),
	}
	switch MIDICommand(m.Command & 0xF0) {
	case NoteOn:
		ev.Down = m.Velocity > 0
	case NoteOff:
		ev.Down = false
	default:
		return RawEvent{}, false
	}
	return ev, true
}
