package midi

import (
	"testing"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

func collect(p *Parser, chunks ...[]byte) []contracts.MIDI {
	var out []contracts.MIDI
	ts := time.Unix(0, 42)
	for _, c := range chunks {
		p.Feed(c, ts, func(m contracts.MIDI) { out = append(out, m) })
	}
	return out
}

func TestParserMessages(t *testing.T) {
	got := collect(&Parser{}, []byte{0x90, 60, 100, 0x80, 60, 0})
	assert.Equal(t, []contracts.MIDI{
		{Timestamp: 42, Command: 0x90, Note: 60, Velocity: 100},
		{Timestamp: 42, Command: 0x80, Note: 60, Velocity: 0},
	}, got)
}

func TestParserRunningStatusAcrossChunks(t *testing.T) {
	got := collect(&Parser{}, []byte{0x90, 60}, []byte{100, 62, 90}, []byte{60, 0})
	if assert.Len(t, got, 3) {
		assert.Equal(t, byte(62), got[1].Note)
		assert.Equal(t, byte(0x90), got[2].Command)
		assert.Equal(t, byte(0), got[2].Velocity)
	}
}

func TestParserSkipsSystemAndProgramChange(t *testing.T) {
	got := collect(&Parser{},
		[]byte{0xF0, 0x7E, 0x01, 0xF7},
		[]byte{0xC0, 5},
		[]byte{0x90, 0xF8, 61, 70},
	)
	if assert.Len(t, got, 1) {
		assert.Equal(t, byte(61), got[0].Note)
		assert.Equal(t, byte(70), got[0].Velocity)
	}
}
