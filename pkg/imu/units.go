package imu

import (
	"encoding/binary"

	"github.com/chewxy/math32"
	"github.com/itohio/shockwatch/pkg/watch"
)

// Acceleration converts raw ±2 g readings to m/s².
func Acceleration(raw [3]int16) watch.Vector3 {
	const scale = StandardGravity / accelLSBPerG
	return watch.Vector3{
		X: float32(raw[0]) * scale,
		Y: float32(raw[1]) * scale,
		Z: float32(raw[2]) * scale,
	}
}

// AngularRate converts raw ±250 °/s readings to rad/s.
func AngularRate(raw [3]int16) watch.Vector3 {
	scale := math32.Pi / 180 / gyroLSBPerDegS
	return watch.Vector3{
		X: float32(raw[0]) * scale,
		Y: float32(raw[1]) * scale,
		Z: float32(raw[2]) * scale,
	}
}

// Celsius converts a raw temperature reading to °C.
func Celsius(raw int16) float32 {
	return float32(raw)/tempLSBPerDegC + tempOffset
}

// word decodes a big-endian register pair.
func word(b []byte) int16 {
	return int16(binary.BigEndian.Uint16(b))
}
