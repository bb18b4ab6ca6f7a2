package device

import "github.com/itohio/shockwatch/pkg/console"

// DefaultBufferSize is the default size for the events channel buffer.
const DefaultBufferSize = 100

// Device is a source of console events from a shockwatch unit (real or simulated).
type Device interface {
	Connect() error
	Close() error
	Events() <-chan console.Event
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
