package watch

// Signaler pulses the buzzer and the indicator together.
type Signaler struct {
	buzzer    Output
	indicator Output
	delay     Delay
}

// NewSignaler creates a Signaler driving both outputs with delay as pulse timer.
func NewSignaler(buzzer, indicator Output, delay Delay) *Signaler {
	return &Signaler{
		buzzer:    buzzer,
		indicator: indicator,
		delay:     delay,
	}
}

// Signal plays the pulse pattern of limit and returns when the last pulse ends.
func (s *Signaler) Signal(limit Limit) {
	pulses, width := limit.Pattern()
	for range pulses {
		s.buzzer.High()
		s.indicator.High()
		s.delay(width)
		s.buzzer.Low()
		s.indicator.Low()
		s.delay(width)
	}
}
