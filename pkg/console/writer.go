package console

import (
	"io"
	"time"

	"github.com/itohio/shockwatch/pkg/watch"
)

var _ watch.Reporter = (*Writer)(nil)

// Writer reports loop events as console lines. Write errors are dropped:
// the console is observational only.
type Writer struct {
	w      io.Writer
	uptime func() time.Duration
	buf    []byte
}

// NewWriter creates a Writer. If uptime is nil, uptime counts from this call.
func NewWriter(w io.Writer, uptime func() time.Duration) *Writer {
	if uptime == nil {
		start := time.Now()
		uptime = func() time.Duration { return time.Since(start) }
	}
	return &Writer{
		w:      w,
		uptime: uptime,
		buf:    make([]byte, 0, 96),
	}
}

func (w *Writer) Reference(r watch.Reference) {
	w.write(Event{Kind: KindReference, Reference: r})
}

func (w *Writer) Sample(s watch.Sample) {
	w.write(Event{Kind: KindSample, Sample: s})
}

func (w *Writer) Alarm(a watch.Alarm) {
	w.write(Event{Kind: KindAlarm, Alarm: a})
}

func (w *Writer) Fault(err error) {
	w.write(Event{Kind: KindFault, Message: err.Error()})
}

func (w *Writer) write(e Event) {
	e.Uptime = w.uptime()
	w.buf = Append(w.buf[:0], e)
	w.buf = append(w.buf, '\n')
	_, _ = w.w.Write(w.buf)
}
