package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/itohio/shockwatch/pkg/config"
	"github.com/itohio/shockwatch/pkg/console"
	"github.com/itohio/shockwatch/pkg/sim"
	"github.com/itohio/shockwatch/pkg/watch"
)

// Mock runs the firmware loop on a simulated sensor and exposes its console
// output as events, exactly as a connected unit would produce them.
type Mock struct {
	cfg *config.MockConfig

	events    chan console.Event
	mu        sync.RWMutex
	cancel    context.CancelFunc
	loopDone  chan struct{}
	readDone  chan struct{}
	connected bool

	sensor    *sim.Sensor
	buzzer    *sim.Output
	indicator *sim.Output
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.Default().Mock
	}

	return &Mock{
		cfg:       cfg,
		events:    make(chan console.Event, DefaultBufferSize),
		buzzer:    &sim.Output{},
		indicator: &sim.Output{},
	}
}

// Connect starts the simulated unit.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}
	if m.loopDone != nil {
		return fmt.Errorf("device closed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.connected = true
	m.loopDone = make(chan struct{})
	m.readDone = make(chan struct{})
	m.sensor = sim.New(*m.cfg)

	pr, pw := io.Pipe()

	go func() {
		defer close(m.readDone)
		// Closing the read side releases a loop blocked on a console write.
		defer pr.Close()
		readEvents(ctx, pr, m.events)
	}()

	go func() {
		defer close(m.loopDone)
		defer pw.Close()
		m.run(ctx, pw)
	}()

	return nil
}

// Close stops the simulated unit and waits for it to finish.
// The events channel is closed once the console is drained.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.connected = false
	loopDone, readDone := m.loopDone, m.readDone
	m.mu.Unlock()

	<-loopDone
	<-readDone
	return nil
}

// Events returns the channel of console events.
func (m *Mock) Events() <-chan console.Event {
	return m.events
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Pulses returns the number of alarm pulses the simulated buzzer has played.
func (m *Mock) Pulses() int {
	return m.buzzer.Pulses()
}

// run mirrors the firmware main loop. A fault halts stepping but the
// unit stays connected, like a halted board on a live serial link.
func (m *Mock) run(ctx context.Context, out io.Writer) {
	delay := m.delay(ctx)
	signaler := watch.NewSignaler(m.buzzer, m.indicator, delay)
	loop := watch.New(m.sensor, signaler, delay, console.NewWriter(out, m.sensor.Elapsed))

	if err := loop.Start(); err != nil {
		<-ctx.Done()
		return
	}

	for ctx.Err() == nil {
		if err := loop.Step(); err != nil {
			<-ctx.Done()
			return
		}
	}
}

// delay advances the simulated clock by d and sleeps d scaled by the
// configured speed. Cancellation cuts the sleep short.
func (m *Mock) delay(ctx context.Context) watch.Delay {
	speed := m.cfg.Speed
	if speed <= 0 {
		speed = 1
	}

	return func(d time.Duration) {
		m.sensor.Advance(d)

		timer := time.NewTimer(time.Duration(float64(d) / speed))
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}
