package chord

import (
	"github.com/leandrodaf/midisteno/internal/codetable"
	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Classifier resolves a key identifier to a hand position.
type Classifier interface {
	Classify(key int) (hand.Hand, int, bool)
}

// Stroke is the result of decoding one closed chord.
type Stroke struct {
	Left, Right codetable.Positions
	Symbols     []contracts.Symbol
}

// Decoder turns closed chords into phoneme symbols.
type Decoder struct {
	hands Classifier
}

// NewDecoder returns a decoder classifying keys with hands.
func NewDecoder(hands Classifier) *Decoder {
	return &Decoder{hands: hands}
}

// Decode looks up each hand's held positions in the chord table. The right
// hand's symbol comes first. Each symbol carries its hand's mean key-down
// velocity, unranked. Unmapped keys
// and chords without a table entry contribute nothing.
func (d *Decoder) Decode(chord []Release) Stroke {
	var (
		st           Stroke
		sums, counts [2]int
	)
	for _, r := range chord {
		h, pos, ok := d.hands.Classify(r.Key)
		if !ok {
			continue
		}
		if h == hand.Left {
			st.Left |= codetable.PositionsOf(pos)
		} else {
			st.Right |= codetable.PositionsOf(pos)
		}
		sums[h] += r.Velocity
		counts[h]++
	}

	for _, h := range []hand.Hand{hand.Right, hand.Left} {
		p := st.Left
		if h == hand.Right {
			p = st.Right
		}
		ph, ok := codetable.Lookup(p)
		if !ok {
			continue
		}
		st.Symbols = append(st.Symbols, contracts.Symbol{
			Phoneme:  ph,
			Velocity: float64(sums[h]) / float64(counts[h]),
			Stress:   contracts.StressNone,
		})
	}
	return st
}
