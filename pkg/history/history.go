// Package history keeps a time window of console events for display.
package history

import (
	"sync"
	"time"

	"github.com/itohio/shockwatch/pkg/console"
	"github.com/itohio/shockwatch/pkg/watch"
)

var _ Recorder = (*History)(nil)

// Point is an evaluated sample together with its deviation from the
// reference that was in effect when it was taken.
type Point struct {
	Timestamp time.Time
	Uptime    time.Duration
	Sample    watch.Sample
	DeltaX    float32
	DeltaT    float32
}

// Marker is a raised alarm.
type Marker struct {
	Timestamp time.Time
	Limit     watch.Limit
	Delta     float32
}

// Snapshot is a consistent copy of the history state.
type Snapshot struct {
	Points    []Point
	Markers   []Marker
	Reference watch.Reference
	// Alarms counts every alarm since the last Reset, including those
	// that have left the window.
	Alarms map[watch.Limit]int
	// Fault is the message of the fault that halted the unit, if any.
	Fault string
}

// Recorder consumes console events and keeps the recent history.
type Recorder interface {
	ProcessEvents(input <-chan console.Event)
	Snapshot() Snapshot
	OnUpdate(func(Snapshot))
}

// History implements Recorder.
// Points and markers are ordered oldest first and trimmed by timestamp.
type History struct {
	window time.Duration

	mu           sync.RWMutex
	points       []Point
	markers      []Marker
	reference    watch.Reference
	hasReference bool
	alarms       map[watch.Limit]int
	fault        string

	callbacks []func(Snapshot)
	cbMu      sync.RWMutex

	// Set when the input channel closes, prevents further callbacks
	shutdown bool
}

// New creates a history that keeps events for the given window.
func New(window time.Duration) *History {
	return &History{
		window: window,
		alarms: make(map[watch.Limit]int),
	}
}

// ProcessEvents consumes events until the input channel closes.
// When it does, the shutdown flag is set to prevent further callbacks.
func (h *History) ProcessEvents(input <-chan console.Event) {
	for e := range input {
		h.process(e)
	}
	h.mu.Lock()
	h.shutdown = true
	h.mu.Unlock()
}

func (h *History) process(e console.Event) {
	h.mu.Lock()

	switch e.Kind {
	case console.KindReference:
		h.reference = e.Reference
		h.hasReference = true
	case console.KindSample:
		p := Point{Timestamp: e.Timestamp, Uptime: e.Uptime, Sample: e.Sample}
		if h.hasReference {
			p.DeltaX, p.DeltaT = h.reference.Deltas(e.Sample)
		}
		h.points = append(h.points, p)
	case console.KindAlarm:
		h.markers = append(h.markers, Marker{Timestamp: e.Timestamp, Limit: e.Alarm.Limit, Delta: e.Alarm.Delta})
		h.alarms[e.Alarm.Limit]++
	case console.KindFault:
		h.fault = e.Message
	}

	h.trim(e.Timestamp)
	notify := !h.shutdown

	// Callbacks take the read lock
	h.mu.Unlock()

	if notify {
		h.notifyCallbacks()
	}
}

// trim drops points and markers older than the window ending at now.
func (h *History) trim(now time.Time) {
	if h.window <= 0 {
		return
	}
	cutoff := now.Add(-h.window)

	i := 0
	for i < len(h.points) && h.points[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		h.points = append(h.points[:0], h.points[i:]...)
	}

	i = 0
	for i < len(h.markers) && h.markers[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		h.markers = append(h.markers[:0], h.markers[i:]...)
	}
}

// Snapshot returns a copy of the current state.
func (h *History) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Snapshot{
		Points:    make([]Point, len(h.points)),
		Markers:   make([]Marker, len(h.markers)),
		Reference: h.reference,
		Alarms:    make(map[watch.Limit]int, len(h.alarms)),
		Fault:     h.fault,
	}
	copy(s.Points, h.points)
	copy(s.Markers, h.markers)
	for k, v := range h.alarms {
		s.Alarms[k] = v
	}
	return s
}

// OnUpdate registers a callback invoked after every processed event.
// The callback should copy what it needs and return quickly.
func (h *History) OnUpdate(callback func(Snapshot)) {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

// SetWindow changes the kept time window. It takes effect on the next event.
func (h *History) SetWindow(window time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.window = window
}

// ResetShutdown allows callbacks again.
// It should be called before feeding a new event channel.
func (h *History) ResetShutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = false
}

// Reset clears all recorded state. Callbacks stay registered.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.points = h.points[:0]
	h.markers = h.markers[:0]
	h.reference = watch.Reference{}
	h.hasReference = false
	h.alarms = make(map[watch.Limit]int)
	h.fault = ""
}

func (h *History) notifyCallbacks() {
	snapshot := h.Snapshot()

	h.cbMu.RLock()
	callbacks := make([]func(Snapshot), len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(snapshot)
		}
	}
}
