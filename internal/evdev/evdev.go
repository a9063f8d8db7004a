// Package evdev reads key transitions from Linux input event devices, so a
// plain keyboard can stand in for a MIDI controller. Scancodes are the key
// identifiers and every press carries the same velocity.
package evdev

import (
	"encoding/binary"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Linux input event constants.
const (
	evKey       = 0x01
	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

// DefaultVelocity is reported for keyboards, which have no velocity.
const DefaultVelocity = 64

// decoder turns raw input_event records into key events. The record size
// depends on the kernel's timeval: 24 bytes on 64-bit, 16 on 32-bit.
type decoder struct {
	size     int
	velocity int
	buf      []byte
}

type record struct {
	at    time.Time
	typ   uint16
	code  uint16
	value int32
}

// feed decodes every complete record buffered so far. Kernel timestamps are
// wall-clock, so each event is stamped at received, offset by its kernel
// time relative to the newest record in the batch. This keeps the spacing
// between events and the monotonic reading of received.
func (d *decoder) feed(chunk []byte, received time.Time, emit func(contracts.RawEvent)) {
	d.buf = append(d.buf, chunk...)
	var batch []record
	for len(d.buf) >= d.size {
		batch = append(batch, d.parse(d.buf[:d.size]))
		d.buf = d.buf[d.size:]
	}
	if len(batch) == 0 {
		return
	}
	newest := batch[len(batch)-1].at
	for _, r := range batch {
		if r.typ != evKey || r.value == valueRepeat {
			continue
		}
		emit(contracts.RawEvent{
			Key:       int(r.code),
			Down:      r.value == valueDown,
			Velocity:  d.velocity,
			Timestamp: received.Add(r.at.Sub(newest)),
		})
	}
}

func (d *decoder) parse(rec []byte) record {
	body := rec[d.size-8:]
	r := record{
		typ:   binary.LittleEndian.Uint16(body[0:2]),
		code:  binary.LittleEndian.Uint16(body[2:4]),
		value: int32(binary.LittleEndian.Uint32(body[4:8])),
	}
	var sec, usec int64
	if d.size == 24 {
		sec = int64(binary.LittleEndian.Uint64(rec[0:8]))
		usec = int64(binary.LittleEndian.Uint64(rec[8:16]))
	} else {
		sec = int64(int32(binary.LittleEndian.Uint32(rec[0:4])))
		usec = int64(int32(binary.LittleEndian.Uint32(rec[4:8])))
	}
	r.at = time.Unix(sec, usec*int64(time.Microsecond))
	return r
}
