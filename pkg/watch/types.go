// Package watch implements the sampling loop that compares IMU readings
// against a per-cycle reference and the alarm signaler it drives.
package watch

import (
	"time"

	"github.com/chewxy/math32"
)

const (
	// MechanicalLimit is the X axis acceleration change (m/s²) that raises a Mechanical alarm.
	MechanicalLimit float32 = 0.8
	// TemperatureLimit is the temperature change (°C) that raises a Temperature alarm.
	TemperatureLimit float32 = 2.5

	// SettleDelay follows every reference capture.
	SettleDelay = 100 * time.Millisecond
	// EvaluationDelay follows every evaluation.
	EvaluationDelay = 500 * time.Millisecond

	// MechanicalPulse is the high and the low time of one Mechanical alarm pulse.
	MechanicalPulse = 100 * time.Millisecond
	// TemperaturePulse is the high and the low time of one Temperature alarm pulse.
	TemperaturePulse = 50 * time.Millisecond

	mechanicalPulses  = 3
	temperaturePulses = 9
)

// Vector3 is a reading along the X, Y and Z axes.
type Vector3 struct {
	X, Y, Z float32
}

// Reference is the baseline every sample of the following evaluation is compared to.
type Reference struct {
	Acceleration Vector3 // m/s²
	Temperature  float32 // °C
}

// Sample is one evaluation reading.
type Sample struct {
	Acceleration Vector3 // m/s²
	AngularRate  Vector3 // rad/s
	Temperature  float32 // °C
}

// Deltas returns the signed X acceleration and temperature differences of s against r.
func (r Reference) Deltas(s Sample) (dx, dt float32) {
	return s.Acceleration.X - r.Acceleration.X, s.Temperature - r.Temperature
}

// Limit classifies which fixed threshold a reading crossed.
type Limit uint8

const (
	Mechanical Limit = iota + 1
	Temperature
)

func (l Limit) String() string {
	switch l {
	case Mechanical:
		return "mechanical"
	case Temperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// Threshold returns the absolute delta at which l fires.
func (l Limit) Threshold() float32 {
	switch l {
	case Mechanical:
		return MechanicalLimit
	case Temperature:
		return TemperatureLimit
	default:
		return math32.Inf(1)
	}
}

// Exceeded reports whether delta reaches the threshold of l. The bound is inclusive.
func (l Limit) Exceeded(delta float32) bool {
	return math32.Abs(delta) >= l.Threshold()
}

// Pattern returns the number of pulses and the high (and low) time of each pulse for l.
func (l Limit) Pattern() (pulses int, width time.Duration) {
	switch l {
	case Mechanical:
		return mechanicalPulses, MechanicalPulse
	case Temperature:
		return temperaturePulses, TemperaturePulse
	default:
		return 0, 0
	}
}

// ParseLimit is the inverse of Limit.String.
func ParseLimit(s string) (Limit, bool) {
	switch s {
	case "mechanical":
		return Mechanical, true
	case "temperature":
		return Temperature, true
	default:
		return 0, false
	}
}

// Alarm is a classified limit crossing.
type Alarm struct {
	Limit Limit
	Delta float32
}

// State is the phase the loop runs on its next step.
type State uint8

const (
	ReferenceCapture State = iota
	Evaluation
)

func (s State) String() string {
	if s == Evaluation {
		return "evaluation"
	}
	return "reference"
}
