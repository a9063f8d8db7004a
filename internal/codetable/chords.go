// Package codetable holds the static chord and phoneme macro tables.
package codetable

import (
	"strconv"
	"strings"
)

// Positions is a set of key positions within one hand, bit i set for position i.
// A set is equivalent to the sorted index tuple, so release order never matters.
type Positions uint8

// PositionsOf builds a set from position indices. Indices outside 0..7 are ignored.
func PositionsOf(indices ...int) Positions {
	var p Positions
	for _, i := range indices {
		if i >= 0 && i < 8 {
			p |= 1 << uint(i)
		}
	}
	return p
}

// Indices returns the positions in ascending order.
func (p Positions) Indices() []int {
	var out []int
	for i := 0; i < 8; i++ {
		if p&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Vowel reports whether the set selects the vowel bank (position 0 held).
func (p Positions) Vowel() bool {
	return p&1 != 0
}

func (p Positions) String() string {
	idx := p.Indices()
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// chords maps a hand's held positions to a phoneme. Position 0 acts as the
// vowel shift; chords without it are consonants.
var chords = map[Positions]string{
	PositionsOf(4):             "n",
	PositionsOf(3):             "t",
	PositionsOf(1):             "r",
	PositionsOf(2):             "s",
	PositionsOf(5):             "d",
	PositionsOf(1, 4):          "l",
	PositionsOf(2, 3):          "D",
	PositionsOf(3, 4):          "z",
	PositionsOf(1, 2):          "m",
	PositionsOf(2, 3, 4):       "k",
	PositionsOf(1, 3):          "v",
	PositionsOf(1, 2, 3, 4):    "w",
	PositionsOf(1, 2, 3):       "p",
	PositionsOf(1, 5):          "f",
	PositionsOf(4, 5):          "b",
	PositionsOf(2, 4):          "h",
	PositionsOf(2, 3, 4, 5):    "N",
	PositionsOf(1, 3, 4):       "S",
	PositionsOf(3, 4, 5):       "g",
	PositionsOf(1, 2, 3, 4, 5): "y",
	PositionsOf(2, 5):          "C",
	PositionsOf(1, 4, 5):       "J",
	PositionsOf(1, 2, 4):       "T",
	PositionsOf(1, 3, 4, 5):    "Z",

	PositionsOf(0):             "AX",
	PositionsOf(0, 4):          "IX",
	PositionsOf(0, 2):          "AO",
	PositionsOf(0, 1):          "IH",
	PositionsOf(0, 3):          "AE",
	PositionsOf(0, 2, 3, 4):    "EH",
	PositionsOf(0, 2, 3):       "IY",
	PositionsOf(0, 2, 4):       "OW",
	PositionsOf(0, 5):          "EY",
	PositionsOf(0, 3, 4):       "UX",
	PositionsOf(0, 2, 3, 4, 5): "UW",
	PositionsOf(0, 4, 5):       "AY",
	PositionsOf(0, 3, 4, 5):    "UH",
	PositionsOf(0, 2, 3, 5):    "AW",
	PositionsOf(0, 2, 4, 5):    "OY",
}

// Lookup returns the phoneme for a chord. The empty set never matches.
func Lookup(p Positions) (string, bool) {
	if p == 0 {
		return "", false
	}
	ph, ok := chords[p]
	return ph, ok
}
