package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignaler_Patterns(t *testing.T) {
	tests := []struct {
		name      string
		limit     Limit
		wantCount int
		wantWidth time.Duration
	}{
		{
			name:      "mechanical",
			limit:     Mechanical,
			wantCount: 3,
			wantWidth: 100 * time.Millisecond,
		},
		{
			name:      "temperature",
			limit:     Temperature,
			wantCount: 9,
			wantWidth: 50 * time.Millisecond,
		},
		{
			name:      "unknown limit is silent",
			limit:     Limit(0),
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buzzer, indicator, c := &pin{}, &pin{}, &clock{}
			NewSignaler(buzzer, indicator, c.delay).Signal(tt.limit)

			assert.Equal(t, tt.wantCount, buzzer.pulses())
			assert.Len(t, buzzer.levels, 2*tt.wantCount)
			assert.Equal(t, buzzer.levels, indicator.levels, "outputs must be driven identically")
			assert.Len(t, c.waits, 2*tt.wantCount)
			for _, w := range c.waits {
				assert.Equal(t, tt.wantWidth, w)
			}
			assert.Equal(t, time.Duration(2*tt.wantCount)*tt.wantWidth, c.total())
		})
	}
}

func TestSignaler_EndsLow(t *testing.T) {
	buzzer, indicator, c := &pin{}, &pin{}, &clock{}
	NewSignaler(buzzer, indicator, c.delay).Signal(Temperature)

	assert.False(t, buzzer.levels[len(buzzer.levels)-1])
	assert.False(t, indicator.levels[len(indicator.levels)-1])
}

func TestSignaler_DelayInterleavesLevels(t *testing.T) {
	var events []string
	out := &funcOutput{
		high: func() { events = append(events, "high") },
		low:  func() { events = append(events, "low") },
	}
	delay := func(d time.Duration) { events = append(events, d.String()) }

	NewSignaler(out, out, delay).Signal(Mechanical)

	want := []string{}
	for range 3 {
		want = append(want, "high", "high", "100ms", "low", "low", "100ms")
	}
	assert.Equal(t, want, events)
}

type funcOutput struct {
	high, low func()
}

func (f *funcOutput) High() { f.high() }
func (f *funcOutput) Low()  { f.low() }
