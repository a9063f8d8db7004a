package codetable

import "github.com/leandrodaf/midisteno/sdk/contracts"

// Linux input scancodes used by the macros.
const (
	key1          = 0x02
	key2          = 0x03
	keyW          = 0x11
	keyE          = 0x12
	keyR          = 0x13
	keyT          = 0x14
	keyY          = 0x15
	keyU          = 0x16
	keyI          = 0x17
	keyO          = 0x18
	keyP          = 0x19
	keyLeftBrace  = 0x1a
	keyRightBrace = 0x1b
	keyEnter      = 0x1c
	keyA          = 0x1e
	keyS          = 0x1f
	keyD          = 0x20
	keyF          = 0x21
	keyG          = 0x22
	keyH          = 0x23
	keyJ          = 0x24
	keyK          = 0x25
	keyL          = 0x26
	keyZ          = 0x2c
	keyX          = 0x2d
	keyC          = 0x2e
	keyV          = 0x2f
	keyB          = 0x30
	keyN          = 0x31
	keyM          = 0x32
	keyRightShift = 0x36
	keySpace      = 0x39
)

// Macro is an ordered sequence of key actions.
type Macro []contracts.KeyAction

// Tap presses and releases each code in turn.
func Tap(codes ...uint16) Macro {
	m := make(Macro, 0, 2*len(codes))
	for _, c := range codes {
		m = append(m, contracts.KeyAction{Code: c, Value: 1}, contracts.KeyAction{Code: c, Value: 0})
	}
	return m
}

// Shifted taps the codes while shift is held.
func Shifted(codes ...uint16) Macro {
	m := Macro{{Code: keyRightShift, Value: 1}}
	m = append(m, Tap(codes...)...)
	return append(m, contracts.KeyAction{Code: keyRightShift, Value: 0})
}

func concat(ms ...Macro) Macro {
	var out Macro
	for _, m := range ms {
		out = append(out, m...)
	}
	return out
}

// Fixed macros framing a word. The preamble types "[[inpt PHON]]", switching
// the receiving speech synthesizer into phoneme input; Enter ends the word.
var (
	Preamble        = concat(Tap(keyLeftBrace, keyLeftBrace, keyI, keyN, keyP, keyT, keySpace), Shifted(keyP, keyH, keyO, keyN), Tap(keyRightBrace, keyRightBrace))
	Postamble       = Tap(keyEnter)
	PrimaryStress   = Tap(key1)
	SecondaryStress = Tap(key2)
)

// phonemes maps each phoneme to the keystrokes spelling it. Upper-case
// letters are typed with shift so "D" and "d" stay distinct.
var phonemes = map[string]Macro{
	"n": Tap(keyN),
	"t": Tap(keyT),
	"r": Tap(keyR),
	"s": Tap(keyS),
	"d": Tap(keyD),
	"l": Tap(keyL),
	"z": Tap(keyZ),
	"m": Tap(keyM),
	"k": Tap(keyK),
	"v": Tap(keyV),
	"w": Tap(keyW),
	"p": Tap(keyP),
	"f": Tap(keyF),
	"b": Tap(keyB),
	"h": Tap(keyH),
	"g": Tap(keyG),
	"y": Tap(keyY),

	"D": Shifted(keyD),
	"N": Shifted(keyN),
	"S": Shifted(keyS),
	"J": Shifted(keyJ),
	"T": Shifted(keyT),
	"C": Shifted(keyC),
	"Z": Shifted(keyZ),

	"AX": Shifted(keyA, keyX),
	"IX": Shifted(keyI, keyX),
	"AO": Shifted(keyA, keyO),
	"IH": Shifted(keyI, keyH),
	"AE": Shifted(keyA, keyE),
	"EH": Shifted(keyE, keyH),
	"IY": Shifted(keyI, keyY),
	"OW": Shifted(keyO, keyW),
	"EY": Shifted(keyE, keyY),
	"UX": Shifted(keyU, keyX),
	"UW": Shifted(keyU, keyW),
	"AY": Shifted(keyA, keyY),
	"UH": Shifted(keyU, keyH),
	"AW": Shifted(keyA, keyW),
	"OY": Shifted(keyO, keyY),
}

// MacroFor returns a copy of the keystrokes for a phoneme.
func MacroFor(phoneme string) (Macro, bool) {
	m, ok := phonemes[phoneme]
	if !ok {
		return nil, false
	}
	return append(Macro(nil), m...), true
}
