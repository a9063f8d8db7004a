// Package hand maps physical key identifiers to a hand and a position within it.
package hand

import (
	"errors"
	"fmt"
)

// KeysPerHand is the number of positions on each hand.
const KeysPerHand = 6

// Hand identifies one half of the keyboard.
type Hand int

const (
	Left Hand = iota
	Right
)

func (h Hand) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

var (
	ErrLayoutSize    = errors.New("hand layout must have 6 keys per hand")
	ErrLayoutOverlap = errors.New("hand layout key assigned twice")
)

// Layout lists each hand's key identifiers ordered by position.
type Layout struct {
	Left  [KeysPerHand]int
	Right [KeysPerHand]int
}

// DefaultLayout matches a 25-key controller played with the split at middle C.
func DefaultLayout() Layout {
	return Layout{
		Left:  [KeysPerHand]int{59, 57, 56, 54, 51, 49},
		Right: [KeysPerHand]int{60, 62, 63, 66, 68, 70},
	}
}

// NewLayout validates and builds a layout from two position-ordered slices.
func NewLayout(left, right []int) (Layout, error) {
	if len(left) != KeysPerHand || len(right) != KeysPerHand {
		return Layout{}, fmt.Errorf("%w: got %d and %d", ErrLayoutSize, len(left), len(right))
	}
	var l Layout
	copy(l.Left[:], left)
	copy(l.Right[:], right)
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that no identifier appears twice across both hands.
func (l Layout) Validate() error {
	seen := make(map[int]struct{}, 2*KeysPerHand)
	for _, keys := range [][KeysPerHand]int{l.Left, l.Right} {
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				return fmt.Errorf("%w: %d", ErrLayoutOverlap, k)
			}
			seen[k] = struct{}{}
		}
	}
	return nil
}
