package sim

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/shockwatch/pkg/config"
	"github.com/itohio/shockwatch/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() config.MockConfig {
	return config.MockConfig{
		Acceleration:  [3]float32{0, 0, 9.8},
		Temperature:   20,
		BumpPeriod:    5 * time.Second,
		BumpMagnitude: 2,
	}
}

func TestSensor_AtRest(t *testing.T) {
	s := New(quiet())
	require.NoError(t, s.Configure())

	acc, err := s.Acceleration()
	require.NoError(t, err)
	assert.Equal(t, watch.Vector3{X: 0, Y: 0, Z: 9.8}, acc)

	rate, err := s.AngularRate()
	require.NoError(t, err)
	assert.Equal(t, watch.Vector3{}, rate)

	temp, err := s.Temperature()
	require.NoError(t, err)
	assert.Equal(t, float32(20), temp)
}

func TestSensor_Knock(t *testing.T) {
	s := New(quiet())

	s.Advance(4900 * time.Millisecond)
	acc, err := s.Acceleration()
	require.NoError(t, err)
	assert.Equal(t, float32(0), acc.X, "no knock before the first period")

	// A quarter of the 2 Hz ring puts the sine at its peak.
	s.Advance(225 * time.Millisecond)
	acc, err = s.Acceleration()
	require.NoError(t, err)
	want := 2 * math32.Exp(-0.125/0.6)
	assert.InDelta(t, want, acc.X, 1e-3)
	assert.Equal(t, float32(9.8), acc.Z)

	rate, err := s.AngularRate()
	require.NoError(t, err)
	assert.InDelta(t, want/2, rate.Y, 1e-3)

	s.Advance(2 * time.Second)
	acc, err = s.Acceleration()
	require.NoError(t, err)
	assert.Equal(t, float32(0), acc.X, "ringing has died out")
}

func TestSensor_KnockTripsLoop(t *testing.T) {
	s := New(quiet())
	alarms := 0
	report := &countingReporter{alarms: &alarms}
	delay := func(d time.Duration) { s.Advance(d) }
	loop := watch.New(s, watch.NewSignaler(&Output{}, &Output{}, delay), delay, report)

	require.NoError(t, loop.Start())
	for s.Elapsed() < 4900*time.Millisecond {
		require.NoError(t, loop.Step())
	}
	assert.Zero(t, alarms)

	for s.Elapsed() < 7*time.Second {
		require.NoError(t, loop.Step())
	}
	assert.Positive(t, alarms)
}

func TestSensor_TemperatureDrift(t *testing.T) {
	cfg := quiet()
	cfg.TemperatureDrift = 0.5
	s := New(cfg)

	s.Advance(10 * time.Second)
	temp, err := s.Temperature()
	require.NoError(t, err)
	assert.InDelta(t, 25.0, temp, 1e-4)
	assert.Equal(t, 10*time.Second, s.Elapsed())
}

func TestSensor_FailAfter(t *testing.T) {
	cfg := quiet()
	cfg.FailAfter = 3
	s := New(cfg)

	_, err := s.Acceleration()
	assert.NoError(t, err)
	_, err = s.AngularRate()
	assert.NoError(t, err)
	_, err = s.Temperature()
	assert.ErrorIs(t, err, ErrInjected)
	_, err = s.Acceleration()
	assert.ErrorIs(t, err, ErrInjected, "a failed sensor stays failed")
}

func TestSensor_NoiseIsBoundedAndDeterministic(t *testing.T) {
	cfg := quiet()
	cfg.BumpPeriod = 0
	cfg.NoiseLevel = 0.1
	a, b := New(cfg), New(cfg)

	for range 200 {
		a.Advance(37 * time.Millisecond)
		b.Advance(37 * time.Millisecond)

		va, err := a.Acceleration()
		require.NoError(t, err)
		vb, err := b.Acceleration()
		require.NoError(t, err)

		assert.Equal(t, va, vb)
		assert.LessOrEqual(t, math32.Abs(va.X), cfg.NoiseLevel)
		assert.LessOrEqual(t, math32.Abs(va.Z-9.8), cfg.NoiseLevel+1e-5)
	}
}

func TestOutput(t *testing.T) {
	o := &Output{}
	assert.False(t, o.IsHigh())

	o.High()
	o.High()
	assert.True(t, o.IsHigh())
	o.Low()
	o.High()
	o.Low()

	assert.False(t, o.IsHigh())
	assert.Equal(t, 2, o.Pulses())
}

type countingReporter struct {
	alarms *int
}

func (c *countingReporter) Reference(watch.Reference) {}
func (c *countingReporter) Sample(watch.Sample)       {}
func (c *countingReporter) Alarm(watch.Alarm)         { *c.alarms++ }
func (c *countingReporter) Fault(error)               {}
