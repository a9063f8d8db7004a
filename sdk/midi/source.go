package midi

import (
	"errors"
	"sync"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// ErrSourceStarted is returned when Start is called twice.
var ErrSourceStarted = errors.New("MIDI source already started")

// Source adapts a ClientMIDI into a contracts.EventSource, turning note
// messages into key transitions.
type Source struct {
	client   contracts.ClientMIDI
	logger   contracts.Logger
	capacity int
	now      func() time.Time

	mu   sync.Mutex
	midi chan contracts.MIDI
	done chan struct{}
}

// NewSource wraps a client whose device is already selected.
func NewSource(client contracts.ClientMIDI, logger contracts.Logger) *Source {
	return &Source{client: client, logger: logger, capacity: 256, now: time.Now}
}

// Start begins capture and forwards key events until Stop.
func (s *Source) Start(events chan<- contracts.RawEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.midi != nil {
		return ErrSourceStarted
	}
	s.midi = make(chan contracts.MIDI, s.capacity)
	s.done = make(chan struct{})
	go s.forward(s.midi, s.done, events)
	s.client.StartCapture(s.midi)
	return nil
}

func (s *Source) forward(in <-chan contracts.MIDI, done <-chan struct{}, out chan<- contracts.RawEvent) {
	for {
		select {
		case <-done:
			return
		case m := <-in:
			ev, ok := m.RawEvent()
			if !ok {
				s.logger.Debug("Ignoring non-note MIDI message", s.logger.Field().Uint8("command", m.Command))
				continue
			}
			// Client timestamps are wall-clock; chord and silence timing need
			// the monotonic reading of a local stamp.
			ev.Timestamp = s.now()
			select {
			case out <- ev:
			case <-done:
				return
			}
		}
	}
}

// Stop ends capture and the forwarding goroutine.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	s.midi = nil
	return s.client.Stop()
}
