// Package chord segments key transitions into chords and decodes them into phonemes.
package chord

import (
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotHeld rejects a release for a key with no matching press.
var ErrKeyNotHeld = errors.New("key released without being pressed")

// Release is one key released while a chord was being formed.
type Release struct {
	Timestamp time.Time
	Key       int
	Velocity  int // Velocity of the matching key-down.
}

// Collector tracks held keys and recent releases. A chord closes when the
// last held key is released; releases older than the threshold by then are
// no longer part of it.
type Collector struct {
	threshold time.Duration
	held      map[int]int
	released  []Release
}

// NewCollector returns a collector that forgets releases once they are threshold old.
func NewCollector(threshold time.Duration) *Collector {
	return &Collector{
		threshold: threshold,
		held:      make(map[int]int),
	}
}

// KeyDown marks key as held. Pressing a held key again refreshes its velocity.
func (c *Collector) KeyDown(key, velocity int, ts time.Time) {
	c.held[key] = velocity
}

// KeyUp releases key. When no keys remain held it returns the closed chord
// in release order and starts a new one.
func (c *Collector) KeyUp(key int, ts time.Time) ([]Release, bool, error) {
	velocity, ok := c.held[key]
	if !ok {
		return nil, false, fmt.Errorf("%w: %d", ErrKeyNotHeld, key)
	}
	delete(c.held, key)

	kept := c.released[:0]
	for _, r := range c.released {
		if ts.Sub(r.Timestamp) < c.threshold {
			kept = append(kept, r)
		}
	}
	c.released = append(kept, Release{Timestamp: ts, Key: key, Velocity: velocity})

	if len(c.held) > 0 {
		return nil, false, nil
	}
	chord := c.released
	c.released = nil
	return chord, true, nil
}

// Held returns the number of keys currently down.
func (c *Collector) Held() int {
	return len(c.held)
}

// Reset drops every held key and buffered release.
func (c *Collector) Reset() {
	clear(c.held)
	c.released = nil
}
