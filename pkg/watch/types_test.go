package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit_Exceeded(t *testing.T) {
	tests := []struct {
		name  string
		limit Limit
		delta float32
		want  bool
	}{
		{name: "mechanical at limit", limit: Mechanical, delta: 0.8, want: true},
		{name: "mechanical just below", limit: Mechanical, delta: 0.7999, want: false},
		{name: "mechanical negative at limit", limit: Mechanical, delta: -0.8, want: true},
		{name: "mechanical negative below", limit: Mechanical, delta: -0.7999, want: false},
		{name: "mechanical far past", limit: Mechanical, delta: 25, want: true},
		{name: "mechanical zero", limit: Mechanical, delta: 0, want: false},
		{name: "temperature at limit", limit: Temperature, delta: 2.5, want: true},
		{name: "temperature below", limit: Temperature, delta: 2.4, want: false},
		{name: "temperature negative", limit: Temperature, delta: -3, want: true},
		{name: "unknown never fires", limit: Limit(7), delta: 1e30, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.limit.Exceeded(tt.delta))
		})
	}
}

func TestReference_Deltas(t *testing.T) {
	ref := Reference{Acceleration: Vector3{X: 1, Y: 2, Z: 9.8}, Temperature: 20}
	s := Sample{
		Acceleration: Vector3{X: 0.5, Y: 7, Z: -3},
		AngularRate:  Vector3{X: 100, Y: 100, Z: 100},
		Temperature:  23,
	}

	dx, dt := ref.Deltas(s)
	assert.InDelta(t, -0.5, dx, 1e-6)
	assert.InDelta(t, 3.0, dt, 1e-6)
}

func TestLimit_Strings(t *testing.T) {
	for _, l := range []Limit{Mechanical, Temperature} {
		parsed, ok := ParseLimit(l.String())
		assert.True(t, ok)
		assert.Equal(t, l, parsed)
	}

	_, ok := ParseLimit("vibration")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Limit(0).String())
	assert.Equal(t, "reference", ReferenceCapture.String())
	assert.Equal(t, "evaluation", Evaluation.String())
}
