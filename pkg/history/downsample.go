package history

import (
	"github.com/chewxy/math32"
	"github.com/itohio/shockwatch/pkg/watch"
)

// Downsample reduces points to at most maxPoints for display.
// Each output point is the one with the largest deviation in its bucket.
// dst is reused when it has enough capacity.
func Downsample(dst []Point, points []Point, maxPoints int) []Point {
	if maxPoints <= 0 || len(points) <= maxPoints {
		if cap(dst) >= len(points) {
			dst = dst[:len(points)]
		} else {
			dst = make([]Point, len(points))
		}
		copy(dst, points)
		return dst
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Point, 0, maxPoints)
	}

	step := float64(len(points)) / float64(maxPoints)
	for i := range maxPoints {
		start := int(float64(i) * step)
		end := int(float64(i+1) * step)
		if end > len(points) {
			end = len(points)
		}
		if start >= end {
			continue
		}

		best := start
		for j := start + 1; j < end; j++ {
			if severity(points[j]) > severity(points[best]) {
				best = j
			}
		}
		dst = append(dst, points[best])
	}

	return dst
}

// severity is the largest ratio of a deviation to its limit.
func severity(p Point) float32 {
	return max(
		math32.Abs(p.DeltaX)/watch.MechanicalLimit,
		math32.Abs(p.DeltaT)/watch.TemperatureLimit,
	)
}
