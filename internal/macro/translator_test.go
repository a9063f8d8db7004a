package macro

import (
	"testing"

	"github.com/leandrodaf/midisteno/internal/codetable"
	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentEvent struct {
	keyType uint8
	code    uint16
	value   uint8
}

type recorder struct {
	events []sentEvent
}

func (r *recorder) SendEvent(keyType uint8, code uint16, value uint8) {
	r.events = append(r.events, sentEvent{keyType, code, value})
}

func concat(parts ...[]contracts.KeyAction) []contracts.KeyAction {
	var out []contracts.KeyAction
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestTranslateSoleSymbol(t *testing.T) {
	n, _ := codetable.MacroFor("n")
	got := Translate([]contracts.Symbol{{Phoneme: "n", Velocity: 100, Stress: contracts.StressNone}})
	assert.Equal(t, concat(codetable.Preamble, n, codetable.Postamble), got)
}

func TestTranslateInsertsStressMarkers(t *testing.T) {
	k, _ := codetable.MacroFor("k")
	ae, _ := codetable.MacroFor("AE")
	t1, _ := codetable.MacroFor("t")

	got := Translate([]contracts.Symbol{
		{Phoneme: "k", Velocity: 70},
		{Phoneme: "AE", Velocity: 110},
		{Phoneme: "t", Velocity: 40},
	})
	want := concat(codetable.Preamble,
		codetable.SecondaryStress, k,
		codetable.PrimaryStress, ae,
		t1,
		codetable.Postamble)
	assert.Equal(t, want, got)
}

func TestTranslateSkipsUnknownPhoneme(t *testing.T) {
	n, _ := codetable.MacroFor("n")
	got := Translate([]contracts.Symbol{{Phoneme: "??"}, {Phoneme: "n"}})
	assert.Equal(t, concat(codetable.Preamble, n, codetable.Postamble), got)
}

func TestTranslateEmptyWord(t *testing.T) {
	assert.Empty(t, Translate(nil))
}

func TestSendDeliversInOrder(t *testing.T) {
	rec := &recorder{}
	tr := NewTranslator(rec, logger.NewFromZap(zap.NewNop()))

	n := tr.Send([]contracts.Symbol{{Phoneme: "n", Velocity: 64}})
	want := Translate([]contracts.Symbol{{Phoneme: "n", Velocity: 64}})
	require.Equal(t, len(want), n)
	require.Len(t, rec.events, len(want))
	for i, a := range want {
		assert.Equal(t, sentEvent{contracts.EVKey, a.Code, a.Value}, rec.events[i])
	}

	assert.Zero(t, tr.Send(nil))
	assert.Len(t, rec.events, len(want))
}
