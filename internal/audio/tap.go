package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the analyzer can read recently played audio from the render loop.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	written   int
	mu        sync.RWMutex
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		if t.written < len(t.buffer) {
			t.written += n
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot copies the most recent len(dst) samples into dst in chronological
// order and returns how many were copied. Slots not yet written are zero.
func (t *Tap) Snapshot(dst [][2]float64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(dst)
	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	// Walk backwards from nextIndex - 1, filling dst from its end
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := n - 1; i >= 0; i-- {
		dst[i] = t.buffer[idx]
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	return n
}

// Started reports whether any sample has passed through the tap.
func (t *Tap) Started() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.written > 0
}
