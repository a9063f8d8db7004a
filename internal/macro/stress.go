package macro

import "github.com/leandrodaf/midisteno/sdk/contracts"

// AssignStress ranks a word's symbols by velocity. The loudest symbol gets
// primary stress and the next loudest distinct velocity secondary stress, but
// only when exactly one symbol holds that velocity. A single symbol has
// nothing to contrast with and stays unstressed.
func AssignStress(word []contracts.Symbol) []contracts.Symbol {
	out := make([]contracts.Symbol, len(word))
	copy(out, word)
	for i := range out {
		out[i].Stress = contracts.StressNone
	}
	if len(out) < 2 {
		return out
	}

	primary, ok := uniqueAt(out, maxBelow(out, nil))
	if !ok {
		return out
	}
	out[primary].Stress = contracts.StressPrimary

	top := out[primary].Velocity
	second := maxBelow(out, &top)
	if second < 0 {
		return out
	}
	if idx, ok := uniqueAt(out, second); ok && idx != primary {
		out[idx].Stress = contracts.StressSecondary
	}
	return out
}

// maxBelow returns the highest velocity strictly below limit, or -1 if none.
func maxBelow(word []contracts.Symbol, limit *float64) float64 {
	best := -1.0
	for _, s := range word {
		if limit != nil && s.Velocity >= *limit {
			continue
		}
		if s.Velocity > best {
			best = s.Velocity
		}
	}
	return best
}

func uniqueAt(word []contracts.Symbol, v float64) (int, bool) {
	idx := -1
	for i, s := range word {
		if s.Velocity != v {
			continue
		}
		if idx >= 0 {
			return -1, false
		}
		idx = i
	}
	return idx, idx >= 0
}
