package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"
	"github.com/itohio/shockwatch/pkg/history"
	"github.com/itohio/shockwatch/pkg/watch"
)

// headroom is the share of the limit shown beyond it when the trace is quiet.
const headroom = 1.25

// trace describes one plotted panel.
type trace struct {
	title string
	unit  string
	limit watch.Limit
	color color.Color
	value func(history.Point) float32
}

var traces = []trace{
	{
		title: "ΔX",
		unit:  "m/s²",
		limit: watch.Mechanical,
		color: color.RGBA{R: 255, G: 165, B: 0, A: 255}, // Orange
		value: func(p history.Point) float32 { return p.DeltaX },
	},
	{
		title: "ΔT",
		unit:  "°C",
		limit: watch.Temperature,
		color: color.RGBA{R: 100, G: 200, B: 255, A: 255}, // Light blue
		value: func(p history.Point) float32 { return p.DeltaT },
	},
}

// ScopeWidget is a custom Fyne widget that plots the deviation of every
// evaluated sample from its reference, one panel per limit.
type ScopeWidget struct {
	widget.BaseWidget

	window    time.Duration
	maxPoints int

	// Data (protected by mu)
	mu        sync.RWMutex
	points    []history.Point
	markers   []history.Marker
	reference watch.Reference

	// Symmetric half range of each panel, indexed like traces
	spans      []float32
	xMin, xMax time.Time
}

// New creates a new ScopeWidget showing the given time window.
func New(window time.Duration, maxPoints int) *ScopeWidget {
	if maxPoints <= 0 {
		maxPoints = 1000
	}
	s := &ScopeWidget{
		window:    window,
		maxPoints: maxPoints,
		points:    make([]history.Point, 0, maxPoints),
		spans:     make([]float32, len(traces)),
	}
	s.updateScale()
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the plotted data with the snapshot.
// This should be called from the history callback using fyne.Do().
func (s *ScopeWidget) UpdateData(snapshot history.Snapshot) {
	s.mu.Lock()
	s.points = history.Downsample(s.points, snapshot.Points, s.maxPoints)
	s.markers = snapshot.Markers
	s.reference = snapshot.Reference
	s.updateScale()
	s.mu.Unlock()

	// Refresh outside the lock, the renderer takes it
	s.Refresh()
}

// SetWindow changes the displayed time window.
func (s *ScopeWidget) SetWindow(window time.Duration) {
	s.mu.Lock()
	s.window = window
	s.updateScale()
	s.mu.Unlock()
	s.Refresh()
}

// updateScale keeps the limit lines in view and grows to fit larger deviations.
func (s *ScopeWidget) updateScale() {
	for i, tr := range traces {
		span := tr.limit.Threshold() * headroom
		for _, p := range s.points {
			span = max(span, math32.Abs(tr.value(p))*1.1)
		}
		s.spans[i] = span
	}

	if len(s.points) == 0 {
		s.xMin = time.Now()
		s.xMax = s.xMin.Add(s.window)
		return
	}
	s.xMax = s.points[len(s.points)-1].Timestamp
	s.xMin = s.points[0].Timestamp
	if s.xMax.Sub(s.xMin) < s.window {
		s.xMin = s.xMax.Add(-s.window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &scopeRenderer{
		scope:      s,
		background: background,
		objects:    []fyne.CanvasObject{background},
	}
}
