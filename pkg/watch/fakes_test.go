package watch

import (
	"errors"
	"time"
)

var errBus = errors.New("i2c: nack")

// scriptSensor replays queued readings. Once a queue is drained the last value repeats.
type scriptSensor struct {
	configureErr error

	acc  []Vector3
	rate []Vector3
	temp []float32

	// failAcc etc. fail the n-th call (1-based) of that channel; 0 never fails.
	failAcc  int
	failRate int
	failTemp int

	accReads  int
	rateReads int
	tempReads int
}

func (s *scriptSensor) Configure() error {
	return s.configureErr
}

func (s *scriptSensor) Acceleration() (Vector3, error) {
	s.accReads++
	if s.failAcc == s.accReads {
		return Vector3{}, errBus
	}
	return next(s.acc, s.accReads), nil
}

func (s *scriptSensor) AngularRate() (Vector3, error) {
	s.rateReads++
	if s.failRate == s.rateReads {
		return Vector3{}, errBus
	}
	return next(s.rate, s.rateReads), nil
}

func (s *scriptSensor) Temperature() (float32, error) {
	s.tempReads++
	if s.failTemp == s.tempReads {
		return 0, errBus
	}
	return next(s.temp, s.tempReads), nil
}

func (s *scriptSensor) reads() int {
	return s.accReads + s.rateReads + s.tempReads
}

func next[T any](queue []T, n int) T {
	var zero T
	if len(queue) == 0 {
		return zero
	}
	if n > len(queue) {
		return queue[len(queue)-1]
	}
	return queue[n-1]
}

// pin records every level change.
type pin struct {
	levels []bool
}

func (p *pin) High() { p.levels = append(p.levels, true) }
func (p *pin) Low()  { p.levels = append(p.levels, false) }

// pulses counts completed high/low pairs.
func (p *pin) pulses() int {
	n := 0
	for i := 0; i+1 < len(p.levels); i += 2 {
		if p.levels[i] && !p.levels[i+1] {
			n++
		}
	}
	return n
}

type clock struct {
	waits []time.Duration
}

func (c *clock) delay(d time.Duration) {
	c.waits = append(c.waits, d)
}

func (c *clock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.waits {
		sum += d
	}
	return sum
}

type recorder struct {
	references []Reference
	samples    []Sample
	alarms     []Alarm
	faults     []error
}

func (r *recorder) Reference(ref Reference) { r.references = append(r.references, ref) }
func (r *recorder) Sample(s Sample)         { r.samples = append(r.samples, s) }
func (r *recorder) Alarm(a Alarm)           { r.alarms = append(r.alarms, a) }
func (r *recorder) Fault(err error)         { r.faults = append(r.faults, err) }

type rig struct {
	sensor    *scriptSensor
	buzzer    *pin
	indicator *pin
	clock     *clock
	report    *recorder
	loop      *Loop
}

func newRig(sensor *scriptSensor) *rig {
	r := &rig{
		sensor:    sensor,
		buzzer:    &pin{},
		indicator: &pin{},
		clock:     &clock{},
		report:    &recorder{},
	}
	signaler := NewSignaler(r.buzzer, r.indicator, r.clock.delay)
	r.loop = New(sensor, signaler, r.clock.delay, r.report)
	return r
}
