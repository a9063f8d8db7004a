package hand

import "github.com/leandrodaf/midisteno/sdk/contracts"

// Splitter classifies key identifiers against a Layout and can relearn the
// layout from the next twelve distinct keys pressed.
type Splitter struct {
	logger      contracts.Logger
	layout      Layout
	index       map[int]slot
	calibrating bool
	learned     []int
}

type slot struct {
	hand Hand
	pos  int
}

// NewSplitter returns a splitter using layout.
func NewSplitter(layout Layout, logger contracts.Logger) *Splitter {
	s := &Splitter{logger: logger}
	s.setLayout(layout)
	return s
}

func (s *Splitter) setLayout(l Layout) {
	s.layout = l
	s.index = make(map[int]slot, 2*KeysPerHand)
	for i, k := range l.Left {
		s.index[k] = slot{Left, i}
	}
	for i, k := range l.Right {
		s.index[k] = slot{Right, i}
	}
}

// Use replaces the active layout, e.g. with one restored from storage.
func (s *Splitter) Use(l Layout) {
	s.setLayout(l)
}

// Layout returns the active layout.
func (s *Splitter) Layout() Layout {
	return s.layout
}

// Classify returns the hand and position of key.
func (s *Splitter) Classify(key int) (Hand, int, bool) {
	sl, ok := s.index[key]
	return sl.hand, sl.pos, ok
}

// Calibrating reports whether key presses are being collected for a new layout.
func (s *Splitter) Calibrating() bool {
	return s.calibrating
}

// StartCalibration discards any partial calibration and begins a new one.
func (s *Splitter) StartCalibration() {
	s.calibrating = true
	s.learned = s.learned[:0]
	s.logger.Info("Calibration started", s.logger.Field().Int("keys", 2*KeysPerHand))
}

// Learn records a key-down during calibration. Repeated keys are ignored.
// It returns true once the twelfth distinct key completes the layout: the
// first six, reversed, become the left hand and the rest the right hand.
func (s *Splitter) Learn(key int) bool {
	if !s.calibrating {
		return false
	}
	for _, k := range s.learned {
		if k == key {
			return false
		}
	}
	s.learned = append(s.learned, key)
	s.logger.Debug("Calibration key learned",
		s.logger.Field().Int("key", key),
		s.logger.Field().Int("count", len(s.learned)))
	if len(s.learned) < 2*KeysPerHand {
		return false
	}

	var l Layout
	for i := 0; i < KeysPerHand; i++ {
		l.Left[i] = s.learned[KeysPerHand-1-i]
		l.Right[i] = s.learned[KeysPerHand+i]
	}
	s.setLayout(l)
	s.calibrating = false
	s.learned = s.learned[:0]
	s.logger.Info("Calibration complete",
		s.logger.Field().Ints("left", l.Left[:]),
		s.logger.Field().Ints("right", l.Right[:]))
	return true
}

// Reset abandons calibration and restores the default layout.
func (s *Splitter) Reset() {
	s.calibrating = false
	s.learned = s.learned[:0]
	s.setLayout(DefaultLayout())
	s.logger.Info("Hand layout cleared; defaults restored")
}
