package sim

import (
	"sync"

	"github.com/itohio/shockwatch/pkg/watch"
)

var _ watch.Output = (*Output)(nil)

// Output is a digital output that remembers its level and counts rising edges.
type Output struct {
	mu    sync.RWMutex
	high  bool
	rises int
}

func (o *Output) High() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.high {
		o.rises++
	}
	o.high = true
}

func (o *Output) Low() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.high = false
}

// IsHigh returns the current level.
func (o *Output) IsHigh() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.high
}

// Pulses returns the number of low-to-high transitions so far.
func (o *Output) Pulses() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.rises
}
