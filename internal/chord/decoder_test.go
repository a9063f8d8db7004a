package chord

import (
	"testing"

	"github.com/leandrodaf/midisteno/internal/codetable"
	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestDecoder() *Decoder {
	return NewDecoder(hand.NewSplitter(hand.DefaultLayout(), logger.NewFromZap(zap.NewNop())))
}

// Default layout: left 59,57,56,54,51,49 and right 60,62,63,66,68,70 by position.
func rel(key, velocity int) Release {
	return Release{Timestamp: t0, Key: key, Velocity: velocity}
}

func TestDecodeSingleConsonant(t *testing.T) {
	st := newTestDecoder().Decode([]Release{rel(68, 80)})

	assert.Equal(t, codetable.PositionsOf(4), st.Right)
	assert.Equal(t, codetable.Positions(0), st.Left)
	assert.Equal(t, []contracts.Symbol{{Phoneme: "n", Velocity: 80, Stress: contracts.StressNone}}, st.Symbols)
}

func TestDecodeRightBeforeLeft(t *testing.T) {
	// right (1,2) = m, left (0,3) = AE
	st := newTestDecoder().Decode([]Release{rel(59, 50), rel(54, 70), rel(62, 100), rel(63, 80)})

	if assert.Len(t, st.Symbols, 2) {
		assert.Equal(t, "m", st.Symbols[0].Phoneme)
		assert.InDelta(t, 90, st.Symbols[0].Velocity, 1e-9)
		assert.Equal(t, "AE", st.Symbols[1].Phoneme)
		assert.InDelta(t, 60, st.Symbols[1].Velocity, 1e-9)
	}
}

func TestDecodeOrderIndependent(t *testing.T) {
	d := newTestDecoder()
	a := d.Decode([]Release{rel(62, 90), rel(68, 90)})
	b := d.Decode([]Release{rel(68, 90), rel(62, 90)})

	assert.Equal(t, a, b)
	assert.Equal(t, "l", a.Symbols[0].Phoneme)
}

func TestDecodeDeterministic(t *testing.T) {
	d := newTestDecoder()
	chord := []Release{rel(60, 90), rel(66, 90), rel(57, 90)}
	first := d.Decode(chord)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.Decode(chord))
	}
}

func TestDecodeSkipsUnmappedAndMissing(t *testing.T) {
	d := newTestDecoder()

	st := d.Decode([]Release{rel(30, 90), rel(31, 90)})
	assert.Empty(t, st.Symbols)

	// left (0,2,5) has no phoneme; right (3) = t still decodes.
	st = d.Decode([]Release{rel(59, 90), rel(56, 90), rel(49, 90), rel(66, 90)})
	if assert.Len(t, st.Symbols, 1) {
		assert.Equal(t, "t", st.Symbols[0].Phoneme)
	}

	assert.Empty(t, d.Decode(nil).Symbols)
}
