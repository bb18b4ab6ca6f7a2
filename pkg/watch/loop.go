package watch

import "fmt"

// Loop alternates between capturing a reference and evaluating a sample against it.
type Loop struct {
	sensor   Sensor
	signaler *Signaler
	delay    Delay
	report   Reporter

	state     State
	reference Reference
	fault     error
}

// New creates a loop. A nil reporter discards all reports.
func New(sensor Sensor, signaler *Signaler, delay Delay, report Reporter) *Loop {
	if report == nil {
		report = Discard
	}
	return &Loop{
		sensor:   sensor,
		signaler: signaler,
		delay:    delay,
		report:   report,
		state:    ReferenceCapture,
	}
}

// Start configures the sensor and captures the startup reference.
// The temperature part of that reference is kept for the lifetime of the loop.
func (l *Loop) Start() error {
	if l.fault != nil {
		return l.fault
	}

	if err := l.sensor.Configure(); err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrInitialization, err))
	}

	acc, err := l.sensor.Acceleration()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrAccelerationRead, err))
	}
	temp, err := l.sensor.Temperature()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrTemperatureRead, err))
	}

	l.reference = Reference{Acceleration: acc, Temperature: temp}
	l.state = ReferenceCapture
	return nil
}

// Step runs the current phase to completion, including its trailing delay.
// After a fault every call returns that fault and does nothing else.
func (l *Loop) Step() error {
	if l.fault != nil {
		return l.fault
	}

	switch l.state {
	case ReferenceCapture:
		return l.capture()
	default:
		return l.evaluate()
	}
}

// Run starts the loop and steps it until a fault occurs.
func (l *Loop) Run() error {
	if err := l.Start(); err != nil {
		return err
	}
	for {
		if err := l.Step(); err != nil {
			return err
		}
	}
}

// State returns the phase the next Step runs.
func (l *Loop) State() State {
	return l.state
}

// Reference returns the reference in effect.
func (l *Loop) Reference() Reference {
	return l.reference
}

// Fault returns the fault that halted the loop, or nil.
func (l *Loop) Fault() error {
	return l.fault
}

func (l *Loop) capture() error {
	acc, err := l.sensor.Acceleration()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrAccelerationRead, err))
	}

	// Only sudden moves should sound the alarm, so the acceleration
	// reference follows the sensor every cycle.
	l.reference.Acceleration = acc
	l.report.Reference(l.reference)

	l.delay(SettleDelay)
	l.state = Evaluation
	return nil
}

func (l *Loop) evaluate() error {
	acc, err := l.sensor.Acceleration()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrAccelerationRead, err))
	}
	rate, err := l.sensor.AngularRate()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrAngularRateRead, err))
	}
	temp, err := l.sensor.Temperature()
	if err != nil {
		return l.halt(fmt.Errorf("%w: %w", ErrTemperatureRead, err))
	}

	s := Sample{Acceleration: acc, AngularRate: rate, Temperature: temp}
	l.report.Sample(s)

	dx, dt := l.reference.Deltas(s)
	if Mechanical.Exceeded(dx) {
		l.raise(Alarm{Limit: Mechanical, Delta: dx})
	}
	if Temperature.Exceeded(dt) {
		l.raise(Alarm{Limit: Temperature, Delta: dt})
	}

	l.delay(EvaluationDelay)
	l.state = ReferenceCapture
	return nil
}

func (l *Loop) raise(a Alarm) {
	l.report.Alarm(a)
	l.signaler.Signal(a.Limit)
}

func (l *Loop) halt(err error) error {
	l.fault = err
	l.report.Fault(err)
	return err
}
