package engine

import (
	"testing"
	"time"

	"github.com/leandrodaf/midisteno/internal/codetable"
	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/internal/macro"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

type recorder struct {
	actions []contracts.KeyAction
}

func (r *recorder) SendEvent(keyType uint8, code uint16, value uint8) {
	r.actions = append(r.actions, contracts.KeyAction{Code: code, Value: value})
}

func newTestEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e, err := New(&contracts.EngineOptions{
		Logger:           logger.NewFromZap(zap.NewNop()),
		Output:           rec,
		ChordThreshold:   contracts.DefaultChordThreshold,
		SilenceThreshold: contracts.DefaultSilenceThreshold,
	})
	require.NoError(t, err)
	return e, rec
}

func down(key, velocity, ms int) contracts.RawEvent {
	return contracts.RawEvent{Key: key, Down: true, Velocity: velocity, Timestamp: at(ms)}
}

func up(key, ms int) contracts.RawEvent {
	return contracts.RawEvent{Key: key, Timestamp: at(ms)}
}

// playChord presses keys at ms and releases them 30ms later.
func playChord(e *Engine, ms, velocity int, keys ...int) {
	for _, k := range keys {
		e.HandleEvent(down(k, velocity, ms))
	}
	for _, k := range keys {
		e.HandleEvent(up(k, ms+30))
	}
}

func TestRoundTripSingleConsonant(t *testing.T) {
	e, rec := newTestEngine(t)
	playChord(e, 0, 90, 68) // right position 4

	assert.False(t, e.Tick(at(100)))
	require.True(t, e.Tick(at(600)))

	n, _ := codetable.MacroFor("n")
	var want []contracts.KeyAction
	want = append(want, codetable.Preamble...)
	want = append(want, n...)
	want = append(want, codetable.Postamble...)
	assert.Equal(t, want, rec.actions)
}

func TestTwoChordsFlushOnceAfterSilence(t *testing.T) {
	e, rec := newTestEngine(t)
	playChord(e, 0, 80, 68)   // n, closes at 30ms
	playChord(e, 100, 80, 59) // AX, closes at 130ms
	assert.Equal(t, 2, e.Pending())

	assert.False(t, e.Tick(at(500)))
	assert.True(t, e.Tick(at(680)))
	assert.False(t, e.Tick(at(2000)))

	want := macro.Translate([]contracts.Symbol{{Phoneme: "n", Velocity: 80}, {Phoneme: "AX", Velocity: 80}})
	assert.Equal(t, want, rec.actions)
}

func TestReleaseOrderDoesNotMatter(t *testing.T) {
	a, recA := newTestEngine(t)
	a.HandleEvent(down(62, 90, 0))
	a.HandleEvent(down(68, 90, 0))
	a.HandleEvent(up(62, 20))
	a.HandleEvent(up(68, 40))
	a.Flush()

	b, recB := newTestEngine(t)
	b.HandleEvent(down(62, 90, 0))
	b.HandleEvent(down(68, 90, 0))
	b.HandleEvent(up(68, 20))
	b.HandleEvent(up(62, 40))
	b.Flush()

	assert.Equal(t, recA.actions, recB.actions)
	assert.NotEmpty(t, recA.actions)
}

func TestUnmappedAndSpuriousEventsAreIgnored(t *testing.T) {
	e, rec := newTestEngine(t)
	e.HandleEvent(down(20, 90, 0))
	e.HandleEvent(up(20, 10))
	e.HandleEvent(up(60, 20)) // never pressed
	assert.Zero(t, e.Pending())
	assert.False(t, e.Flush())
	assert.Empty(t, rec.actions)
}

func TestFlushEmptyEmitsNothing(t *testing.T) {
	e, rec := newTestEngine(t)
	assert.False(t, e.Flush())
	assert.False(t, e.Tick(at(10000)))
	assert.Empty(t, rec.actions)
}

func TestCalibrationThroughEvents(t *testing.T) {
	e, rec := newTestEngine(t)
	e.HandleEvent(down(60, 90, 0)) // held across calibration start
	e.StartCalibration()
	e.HandleEvent(up(60, 5))

	for i, k := range []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21} {
		e.HandleEvent(down(k, 90, 10*i))
		e.HandleEvent(up(k, 10*i+5))
	}
	require.False(t, e.Calibrating())
	assert.Equal(t, [hand.KeysPerHand]int{15, 14, 13, 12, 11, 10}, e.Layout().Left)
	assert.Equal(t, [hand.KeysPerHand]int{16, 17, 18, 19, 20, 21}, e.Layout().Right)
	assert.Zero(t, e.Pending())

	// Releases of keys pressed while calibrating were never collected.
	e.HandleEvent(up(21, 200))
	assert.Zero(t, e.Pending())
	playChord(e, 300, 90, 20) // right position 4
	require.True(t, e.Flush())
	n, _ := codetable.MacroFor("n")
	assert.Contains(t, string(encode(rec.actions)), string(encode(n)))
}

func TestClearLayoutIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.UseLayout(hand.Layout{Left: [6]int{1, 2, 3, 4, 5, 6}, Right: [6]int{7, 8, 9, 10, 11, 12}}))
	e.StartCalibration()
	e.ClearLayout()
	e.ClearLayout()
	assert.False(t, e.Calibrating())
	assert.Equal(t, hand.DefaultLayout(), e.Layout())
}

func TestNewRejectsBadLayout(t *testing.T) {
	_, err := New(&contracts.EngineOptions{
		Logger: logger.NewFromZap(zap.NewNop()),
		Output: &recorder{},
		Left:   []int{1, 2, 3},
		Right:  []int{4, 5, 6},
	})
	assert.ErrorIs(t, err, hand.ErrLayoutSize)

	_, err = New(&contracts.EngineOptions{Logger: logger.NewFromZap(zap.NewNop())})
	assert.ErrorIs(t, err, contracts.ErrNoOutput)
}

func encode(actions []contracts.KeyAction) []byte {
	out := make([]byte, 0, 3*len(actions))
	for _, a := range actions {
		out = append(out, byte(a.Code>>8), byte(a.Code), a.Value)
	}
	return out
}
