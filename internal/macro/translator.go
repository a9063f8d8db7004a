// Package macro expands decoded words into framed key action sequences.
package macro

import (
	"github.com/leandrodaf/midisteno/internal/codetable"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Translator expands words and sends the result to an HID sink.
type Translator struct {
	logger contracts.Logger
	out    contracts.HIDOutput
}

// NewTranslator returns a translator writing to out.
func NewTranslator(out contracts.HIDOutput, logger contracts.Logger) *Translator {
	return &Translator{logger: logger, out: out}
}

// Translate ranks stress across word and returns its key actions between the
// fixed preamble and postamble. Phonemes without a macro are skipped. An
// empty word produces no actions.
func Translate(word []contracts.Symbol) []contracts.KeyAction {
	if len(word) == 0 {
		return nil
	}
	var actions []contracts.KeyAction
	actions = append(actions, codetable.Preamble...)
	for _, s := range AssignStress(word) {
		m, ok := codetable.MacroFor(s.Phoneme)
		if !ok {
			continue
		}
		switch s.Stress {
		case contracts.StressPrimary:
			actions = append(actions, codetable.PrimaryStress...)
		case contracts.StressSecondary:
			actions = append(actions, codetable.SecondaryStress...)
		}
		actions = append(actions, m...)
	}
	return append(actions, codetable.Postamble...)
}

// Send translates word and delivers each action in order.
func (t *Translator) Send(word []contracts.Symbol) int {
	actions := Translate(word)
	if len(actions) == 0 {
		return 0
	}
	phonemes := make([]string, len(word))
	for i, s := range word {
		phonemes[i] = s.Phoneme
	}
	t.logger.Info("Sending word",
		t.logger.Field().Strings("phonemes", phonemes),
		t.logger.Field().Int("actions", len(actions)))
	for _, a := range actions {
		t.out.SendEvent(contracts.EVKey, a.Code, a.Value)
	}
	return len(actions)
}
