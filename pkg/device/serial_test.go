package device

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/itohio/shockwatch/pkg/console"
	"github.com/itohio/shockwatch/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(ch <-chan console.Event) []console.Event {
	var events []console.Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestReadEvents(t *testing.T) {
	input := strings.Join([]string{
		"shockwatch: mpu6050 on i2c0",
		"0,R,0.0000,0.0000,9.8000,20.0000",
		"",
		"100,S,0.9000,0.0000,9.8000,0.0000,0.0000,0.0000,20.0000",
		"100,A,mechanical,0.9000",
		"garbage,,,",
		"700,F,accelerometer read failed: nack",
	}, "\r\n")

	out := make(chan console.Event, 10)
	before := time.Now()
	readEvents(context.Background(), strings.NewReader(input), out)

	events := collect(out)
	require.Len(t, events, 4)

	kinds := make([]console.Kind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
		assert.False(t, e.Timestamp.Before(before), "events are stamped on receipt")
	}
	assert.Equal(t, []console.Kind{console.KindReference, console.KindSample, console.KindAlarm, console.KindFault}, kinds)

	assert.Equal(t, float32(9.8), events[0].Reference.Acceleration.Z)
	assert.Equal(t, watch.Mechanical, events[2].Alarm.Limit)
	assert.Equal(t, 700*time.Millisecond, events[3].Uptime)
	assert.Equal(t, "accelerometer read failed: nack", events[3].Message)
}

func TestReadEvents_DropsWhenFull(t *testing.T) {
	var lines []string
	for range 5 {
		lines = append(lines, "0,F,x")
	}

	out := make(chan console.Event, 2)
	readEvents(context.Background(), strings.NewReader(strings.Join(lines, "\n")), out)

	assert.Len(t, collect(out), 2)
}

func TestReadEvents_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan console.Event, 10)
	readEvents(ctx, strings.NewReader("0,F,x\n1,F,y\n"), out)

	assert.Empty(t, collect(out))
}

func TestSerial_ConnectFailure(t *testing.T) {
	d := New("/dev/shockwatch-does-not-exist", 0, 0)

	err := d.Connect()
	assert.Error(t, err)
	assert.False(t, d.IsConnected())
	assert.NoError(t, d.Close())
}

func TestSerial_Defaults(t *testing.T) {
	d := New("COM9", 0, 0)
	assert.Equal(t, DefaultBaudRate, d.baudRate)
	assert.Equal(t, DefaultBufferSize, cap(d.events))
	assert.NotNil(t, d.Events())
}

func TestSerial_ReaderExitDisconnects(t *testing.T) {
	d := New("COM9", 0, 0)
	r, w := io.Pipe()

	d.mu.Lock()
	d.start(r)
	d.mu.Unlock()
	require.True(t, d.IsConnected())

	_, err := io.WriteString(w, "0,R,0.0000,0.0000,9.8000,20.0000\n")
	require.NoError(t, err)

	// The unit goes away without Close being called
	require.NoError(t, w.Close())

	events := collect(d.Events())
	require.Len(t, events, 1)
	assert.Equal(t, console.KindReference, events[0].Kind)

	assert.Eventually(t, func() bool { return !d.IsConnected() }, time.Second, 5*time.Millisecond)

	// Close still releases the port and stays idempotent
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
	assert.False(t, d.IsConnected())
	assert.EqualError(t, d.Connect(), "device closed")
}

func TestSerial_CloseStopsReader(t *testing.T) {
	d := New("COM9", 0, 0)
	r, w := io.Pipe()
	defer w.Close()

	d.mu.Lock()
	d.start(r)
	d.mu.Unlock()

	require.NoError(t, d.Close())
	assert.False(t, d.IsConnected())
	assert.Empty(t, collect(d.Events()))
}
