package device

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/itohio/shockwatch/pkg/console"
	"go.bug.st/serial"
)

// DefaultBaudRate is the console baud rate of the firmware.
const DefaultBaudRate = 115200

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads the console of a shockwatch unit over a serial port.
type Serial struct {
	port     string
	baudRate int

	conn      io.ReadCloser
	events    chan console.Event
	done      chan struct{}
	mu        sync.RWMutex
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		events:   make(chan console.Event, bufSize),
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading events.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}
	if d.done != nil {
		return fmt.Errorf("device closed")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.start(port)
	return nil
}

// start reads events from port until it is exhausted or closed.
// A port that ends on its own, such as an unplugged unit, leaves the
// device disconnected; Close still releases it. d.mu must be held.
func (d *Serial) start(port io.ReadCloser) {
	ctx, cancel := context.WithCancel(context.Background())
	d.conn = port
	d.cancel = cancel
	d.done = make(chan struct{})
	d.connected = true

	done := d.done
	go func() {
		defer close(done)
		readEvents(ctx, port, d.events)

		d.mu.Lock()
		if d.connected {
			log.Printf("Serial port %s disconnected", d.port)
		}
		d.connected = false
		d.mu.Unlock()
	}()
}

// Close closes the port and waits for the reader to finish.
// The events channel is closed once the reader returns.
func (d *Serial) Close() error {
	d.mu.Lock()
	if d.conn == nil {
		d.mu.Unlock()
		return nil
	}

	d.cancel()

	// Closing the port unblocks the scanner
	if err := d.conn.Close(); err != nil {
		log.Printf("Error closing serial port: %v", err)
	}
	d.conn = nil
	d.connected = false
	done := d.done
	d.mu.Unlock()

	<-done
	return nil
}

// Events returns the channel of parsed console events.
func (d *Serial) Events() <-chan console.Event {
	return d.events
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}
