// Package midi holds MIDI byte stream handling shared by the platform clients.
package midi

import (
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Parser splits a MIDI byte stream into channel voice messages, honouring
// running status. System messages are skipped.
type Parser struct {
	status byte
	data   [2]byte
	n      int
	sysex  bool
}

// Feed consumes bytes and calls emit for each complete two-byte message
// (note on/off, poly pressure, control change, pitch bend).
func (p *Parser) Feed(b []byte, ts time.Time, emit func(contracts.MIDI)) {
	for _, c := range b {
		switch {
		case c >= 0xF8:
			// Real-time bytes may appear anywhere, even inside other messages.
			continue
		case c == 0xF0:
			p.sysex = true
			p.status = 0
			continue
		case c >= 0xF0:
			p.sysex = false
			p.status = 0
			continue
		case c >= 0x80:
			p.sysex = false
			p.status = c
			p.n = 0
			continue
		}
		if p.sysex || p.status == 0 {
			continue
		}
		p.data[p.n] = c
		p.n++
		if p.n < dataLen(p.status) {
			continue
		}
		p.n = 0
		if dataLen(p.status) == 2 {
			emit(contracts.MIDI{
				Timestamp: uint64(ts.UnixNano()),
				Command:   p.status,
				Note:      p.data[0],
				Velocity:  p.data[1],
			})
		}
	}
}

// dataLen is the number of data bytes following a channel status byte.
func dataLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	}
	return 2
}
