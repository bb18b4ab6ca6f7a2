package device

import (
	"testing"
	"time"

	"github.com/itohio/shockwatch/pkg/config"
	"github.com/stretchr/testify/assert"
)

// TestMock_GracefulShutdown tests that Mock device closes events channel
// when Close() is called.
func TestMock_GracefulShutdown(t *testing.T) {
	cfg := &config.MockConfig{
		Acceleration: [3]float32{0, 0, 9.8},
		Temperature:  20,
		NoiseLevel:   0.01,
		Speed:        50,
	}

	mock := NewMock(cfg)
	err := mock.Connect()
	assert.NoError(t, err)

	events := mock.Events()

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range events {
			received++
			if received == 3 {
				// Got enough events, now close device
				mock.Close()
			}
		}
	}()

	select {
	case <-done:
		// Channel closed successfully
	case <-time.After(5 * time.Second):
		t.Fatal("Events channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3, "Should receive events before channel closes")

	_, ok := <-events
	assert.False(t, ok, "Channel should be closed")
}

// TestMock_GracefulShutdown_AfterFault tests that a halted mock still shuts down.
func TestMock_GracefulShutdown_AfterFault(t *testing.T) {
	cfg := &config.MockConfig{
		Acceleration: [3]float32{0, 0, 9.8},
		FailAfter:    1,
		Speed:        1,
	}

	mock := NewMock(cfg)
	assert.NoError(t, mock.Connect())

	select {
	case e := <-mock.Events():
		assert.Contains(t, e.Message, "accelerometer read failed")
	case <-time.After(5 * time.Second):
		t.Fatal("no fault event")
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		mock.Close()
	}()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on a halted mock")
	}

	_, ok := <-mock.Events()
	assert.False(t, ok)
}
