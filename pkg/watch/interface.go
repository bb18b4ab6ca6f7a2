package watch

import "time"

// Sensor is a 6-axis IMU with a temperature channel.
type Sensor interface {
	Configure() error
	Acceleration() (Vector3, error)
	AngularRate() (Vector3, error)
	Temperature() (float32, error)
}

// Output is a digital output line. machine.Pin satisfies it.
type Output interface {
	High()
	Low()
}

// Delay blocks for d.
type Delay func(d time.Duration)

// Reporter receives every reading, alarm and fault of the loop.
// Implementations are best-effort and must not block for long.
type Reporter interface {
	Reference(r Reference)
	Sample(s Sample)
	Alarm(a Alarm)
	Fault(err error)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Reference(Reference) {}
func (discard) Sample(Sample)       {}
func (discard) Alarm(Alarm)         {}
func (discard) Fault(error)         {}
