// Package sim provides a simulated IMU for running the watch loop on a host.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/shockwatch/pkg/config"
	"github.com/itohio/shockwatch/pkg/watch"
)

// ErrInjected is returned by the read selected with MockConfig.FailAfter.
var ErrInjected = errors.New("simulated bus fault")

// A knock rings the X axis as a decaying sine.
const (
	ringDuration  = 1500 * time.Millisecond
	ringDecay     = 0.6 // s
	ringFrequency = 2   // Hz
)

var _ watch.Sensor = (*Sensor)(nil)

// Sensor is a deterministic IMU model driven by a virtual clock.
// The clock only moves through Advance, so every reading is reproducible.
type Sensor struct {
	cfg config.MockConfig

	mu      sync.Mutex
	elapsed time.Duration
	reads   int
}

// New creates a simulated sensor.
func New(cfg config.MockConfig) *Sensor {
	return &Sensor{cfg: cfg}
}

// Advance moves the virtual clock forward by d.
func (s *Sensor) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += d
}

// Elapsed returns the virtual time since creation.
func (s *Sensor) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *Sensor) Configure() error {
	return nil
}

func (s *Sensor) Acceleration() (watch.Vector3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.read(); err != nil {
		return watch.Vector3{}, err
	}

	base := s.cfg.Acceleration
	v := watch.Vector3{
		X: base[0] + s.noise(1),
		Y: base[1] + s.noise(2),
		Z: base[2] + s.noise(3),
	}
	v.X += s.knock()
	return v, nil
}

func (s *Sensor) AngularRate() (watch.Vector3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.read(); err != nil {
		return watch.Vector3{}, err
	}

	v := watch.Vector3{X: s.noise(4), Y: s.noise(5), Z: s.noise(6)}
	v.Y += s.knock() / 2
	return v, nil
}

func (s *Sensor) Temperature() (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.read(); err != nil {
		return 0, err
	}
	drift := s.cfg.TemperatureDrift * float32(s.elapsed.Seconds())
	return s.cfg.Temperature + drift + s.noise(7), nil
}

func (s *Sensor) read() error {
	s.reads++
	if s.cfg.FailAfter > 0 && s.reads >= s.cfg.FailAfter {
		return ErrInjected
	}
	return nil
}

// knock returns the ringing offset of the knock in progress. Knocks start at
// every multiple of BumpPeriod except zero.
func (s *Sensor) knock() float32 {
	if s.cfg.BumpPeriod <= 0 || s.elapsed < s.cfg.BumpPeriod {
		return 0
	}
	tau := s.elapsed % s.cfg.BumpPeriod
	if tau >= ringDuration {
		return 0
	}
	t := float32(tau.Seconds())
	return s.cfg.BumpMagnitude * math32.Exp(-t/ringDecay) * math32.Sin(2*math32.Pi*ringFrequency*t)
}

// noise is a smooth pseudo-random value in [-NoiseLevel, NoiseLevel]
// that depends only on the virtual time and the channel.
func (s *Sensor) noise(channel int) float32 {
	if s.cfg.NoiseLevel == 0 {
		return 0
	}
	t := float32(s.elapsed.Seconds())
	c := float32(channel)
	n := math32.Sin(t*(3.1+c)) + math32.Cos(t*(1.7+0.3*c))
	return n * 0.5 * s.cfg.NoiseLevel
}
