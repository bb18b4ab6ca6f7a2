// Package console encodes loop reports as CSV lines on the firmware console
// and parses them back on the host.
//
// Line format, prefixed by the firmware uptime in milliseconds:
//
//	<ms>,R,<ax>,<ay>,<az>,<t>
//	<ms>,S,<ax>,<ay>,<az>,<gx>,<gy>,<gz>,<t>
//	<ms>,A,<mechanical|temperature>,<delta>
//	<ms>,F,<message>
package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itohio/shockwatch/pkg/watch"
)

// Kind identifies the line type.
type Kind byte

const (
	KindReference Kind = 'R'
	KindSample    Kind = 'S'
	KindAlarm     Kind = 'A'
	KindFault     Kind = 'F'
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindSample:
		return "sample"
	case KindAlarm:
		return "alarm"
	case KindFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Decimals is the number of fractional digits written for every value.
const Decimals = 4

// Event is one decoded console line.
type Event struct {
	Timestamp time.Time     // Host receive time, zero on the firmware side
	Uptime    time.Duration // Firmware uptime when the line was written
	Kind      Kind

	Reference watch.Reference // KindReference
	Sample    watch.Sample    // KindSample
	Alarm     watch.Alarm     // KindAlarm
	Message   string          // KindFault
}

// Append appends the line for e, without the trailing newline, to dst.
func Append(dst []byte, e Event) []byte {
	dst = strconv.AppendInt(dst, e.Uptime.Milliseconds(), 10)
	dst = append(dst, ',', byte(e.Kind))

	switch e.Kind {
	case KindReference:
		dst = appendVector(dst, e.Reference.Acceleration)
		dst = appendFloat(dst, e.Reference.Temperature)
	case KindSample:
		dst = appendVector(dst, e.Sample.Acceleration)
		dst = appendVector(dst, e.Sample.AngularRate)
		dst = appendFloat(dst, e.Sample.Temperature)
	case KindAlarm:
		dst = append(dst, ',')
		dst = append(dst, e.Alarm.Limit.String()...)
		dst = appendFloat(dst, e.Alarm.Delta)
	case KindFault:
		dst = append(dst, ',')
		dst = append(dst, sanitize(e.Message)...)
	}
	return dst
}

// Format returns the line for e without the trailing newline.
func Format(e Event) string {
	return string(Append(nil, e))
}

// Parse decodes one line. Surrounding whitespace is ignored.
func Parse(line string) (Event, error) {
	line = strings.TrimSpace(line)
	head, rest, ok := strings.Cut(line, ",")
	if !ok {
		return Event{}, fmt.Errorf("invalid line format: missing kind")
	}

	ms, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("invalid uptime: %w", err)
	}
	if ms < 0 {
		return Event{}, fmt.Errorf("invalid uptime: %d", ms)
	}

	kind, payload, _ := strings.Cut(rest, ",")
	if len(kind) != 1 {
		return Event{}, fmt.Errorf("invalid kind %q", kind)
	}

	e := Event{
		Uptime: time.Duration(ms) * time.Millisecond,
		Kind:   Kind(kind[0]),
	}

	switch e.Kind {
	case KindReference:
		v, err := parseFloats(payload, 4)
		if err != nil {
			return Event{}, fmt.Errorf("invalid reference: %w", err)
		}
		e.Reference = watch.Reference{
			Acceleration: watch.Vector3{X: v[0], Y: v[1], Z: v[2]},
			Temperature:  v[3],
		}
	case KindSample:
		v, err := parseFloats(payload, 7)
		if err != nil {
			return Event{}, fmt.Errorf("invalid sample: %w", err)
		}
		e.Sample = watch.Sample{
			Acceleration: watch.Vector3{X: v[0], Y: v[1], Z: v[2]},
			AngularRate:  watch.Vector3{X: v[3], Y: v[4], Z: v[5]},
			Temperature:  v[6],
		}
	case KindAlarm:
		name, value, ok := strings.Cut(payload, ",")
		if !ok {
			return Event{}, fmt.Errorf("invalid alarm: expected limit and delta")
		}
		limit, ok := watch.ParseLimit(name)
		if !ok {
			return Event{}, fmt.Errorf("invalid alarm limit %q", name)
		}
		v, err := parseFloats(value, 1)
		if err != nil {
			return Event{}, fmt.Errorf("invalid alarm delta: %w", err)
		}
		e.Alarm = watch.Alarm{Limit: limit, Delta: v[0]}
	case KindFault:
		e.Message = payload
	default:
		return Event{}, fmt.Errorf("unknown kind %q", kind)
	}

	return e, nil
}

func appendVector(dst []byte, v watch.Vector3) []byte {
	dst = appendFloat(dst, v.X)
	dst = appendFloat(dst, v.Y)
	return appendFloat(dst, v.Z)
}

func appendFloat(dst []byte, v float32) []byte {
	dst = append(dst, ',')
	return strconv.AppendFloat(dst, float64(v), 'f', Decimals, 32)
}

func parseFloats(payload string, n int) ([]float32, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}

	values := make([]float32, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, err
		}
		values[i] = float32(v)
	}
	return values, nil
}

// sanitize keeps a fault message on a single line.
func sanitize(msg string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, msg)
}
