package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/shockwatch/pkg/history"
	"github.com/itohio/shockwatch/pkg/watch"
)

var (
	gridColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	limitColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	markerColor = color.RGBA{R: 255, G: 60, B: 60, A: 255}
)

const (
	marginLeft   = 60
	marginRight  = 20
	marginTop    = 20
	marginBottom = 30
	panelGap     = 30
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	background *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plotArea is the pixel rectangle of one panel and the data range it maps.
type plotArea struct {
	x, y, w, h float32
	span       float32
	xMin, xMax time.Time
}

func (a plotArea) px(t time.Time) float32 {
	total := a.xMax.Sub(a.xMin).Seconds()
	if total <= 0 {
		return a.x
	}
	return a.x + float32(t.Sub(a.xMin).Seconds()/total)*a.w
}

func (a plotArea) py(v float32) float32 {
	v = min(max(v, -a.span), a.span)
	return a.y + a.h/2 - v/a.span*a.h/2
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the canvas objects from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.points
	markers := r.scope.markers
	reference := r.scope.reference
	spans := append([]float32(nil), r.scope.spans...)
	xMin, xMax := r.scope.xMin, r.scope.xMax
	r.scope.mu.RUnlock()

	r.objects = []fyne.CanvasObject{r.background}

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	width := size.Width - marginLeft - marginRight
	height := (size.Height - marginTop - marginBottom - panelGap*float32(len(traces)-1)) / float32(len(traces))

	for i, tr := range traces {
		area := plotArea{
			x:    marginLeft,
			y:    marginTop + float32(i)*(height+panelGap),
			w:    width,
			h:    height,
			span: spans[i],
			xMin: xMin,
			xMax: xMax,
		}
		r.drawGrid(area, tr)
		r.drawLimits(area, tr)
		r.drawMarkers(area, tr, markers)
		r.drawTrace(area, tr, points)
	}

	r.drawTimeAxis(marginLeft, size.Height-marginBottom+5, width, xMin, xMax)
	r.addText(formatReference(reference), labelColor, fyne.TextAlignTrailing, fyne.NewPos(size.Width-marginRight, 2))
}

func (r *scopeRenderer) drawGrid(a plotArea, tr trace) {
	const lines = 4
	for i := range lines + 1 {
		y := a.y + float32(i)*a.h/lines
		r.addLine(gridColor, 1, fyne.NewPos(a.x, y), fyne.NewPos(a.x+a.w, y))

		value := a.span - float32(i)*2*a.span/lines
		r.addText(formatFloat(value, 2), labelColor, fyne.TextAlignTrailing, fyne.NewPos(a.x-5, y-6))
	}

	const columns = 10
	for i := range columns + 1 {
		x := a.x + float32(i)*a.w/columns
		r.addLine(gridColor, 1, fyne.NewPos(x, a.y), fyne.NewPos(x, a.y+a.h))
	}

	r.addText(tr.title+" "+tr.unit, tr.color, fyne.TextAlignLeading, fyne.NewPos(a.x+5, a.y+2))
}

// drawLimits draws the alarm threshold on both sides of zero.
func (r *scopeRenderer) drawLimits(a plotArea, tr trace) {
	limit := tr.limit.Threshold()
	for _, v := range []float32{limit, -limit} {
		y := a.py(v)
		r.addLine(limitColor, 1, fyne.NewPos(a.x, y), fyne.NewPos(a.x+a.w, y))
	}
}

// drawMarkers draws a vertical line for every alarm of the panel's limit.
func (r *scopeRenderer) drawMarkers(a plotArea, tr trace, markers []history.Marker) {
	for _, m := range markers {
		if m.Limit != tr.limit || m.Timestamp.Before(a.xMin) {
			continue
		}
		x := a.px(m.Timestamp)
		r.addLine(markerColor, 2, fyne.NewPos(x, a.y), fyne.NewPos(x, a.y+a.h))
		r.addText(formatFloat(m.Delta, 2), markerColor, fyne.TextAlignCenter, fyne.NewPos(x, a.y+a.h-14))
	}
}

func (r *scopeRenderer) drawTrace(a plotArea, tr trace, points []history.Point) {
	var prev fyne.Position
	first := true
	for _, p := range points {
		if p.Timestamp.Before(a.xMin) {
			continue
		}
		pos := fyne.NewPos(a.px(p.Timestamp), a.py(tr.value(p)))
		if !first {
			r.addLine(tr.color, 1.5, prev, pos)
		}
		prev, first = pos, false
	}
}

func (r *scopeRenderer) drawTimeAxis(x, y, width float32, xMin, xMax time.Time) {
	const columns = 10
	total := xMax.Sub(xMin)
	for i := range columns + 1 {
		offset := total * time.Duration(i) / columns
		r.addText(formatDuration(offset-total), labelColor, fyne.TextAlignCenter, fyne.NewPos(x+float32(i)*width/columns, y))
	}
}

func (r *scopeRenderer) addLine(c color.Color, width float32, from, to fyne.Position) {
	line := canvas.NewLine(c)
	line.Position1 = from
	line.Position2 = to
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

func (r *scopeRenderer) addText(s string, c color.Color, align fyne.TextAlign, pos fyne.Position) {
	text := canvas.NewText(s, c)
	text.TextSize = 10
	text.Alignment = align
	text.Move(pos)
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

func formatFloat(v float32, decimals int) string {
	return strconv.FormatFloat(float64(v), 'f', decimals, 32)
}

// formatDuration formats a non-positive offset from now.
func formatDuration(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
}

func formatReference(ref watch.Reference) string {
	return "ref X " + formatFloat(ref.Acceleration.X, 3) + " m/s²  T " + formatFloat(ref.Temperature, 2) + " °C"
}
