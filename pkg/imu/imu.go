// Package imu reads an MPU6050 over I2C as a watch.Sensor.
package imu

import (
	"fmt"

	"github.com/itohio/shockwatch/pkg/watch"
)

// StandardGravity is one g in m/s².
const StandardGravity = 9.80665

// Bus is the register access of an I2C bus. *machine.I2C satisfies it.
type Bus interface {
	ReadRegister(address uint8, register uint8, data []byte) error
	WriteRegister(address uint8, register uint8, data []byte) error
}

var _ watch.Sensor = (*Sensor)(nil)

// Sensor reads one MPU6050 channel per bus transaction.
type Sensor struct {
	bus       Bus
	address   uint8
	configure func() error

	buf [6]byte
}

// New creates a Sensor. configure runs an extra initialization step before
// the device is woken, such as a driver's own Configure; it may be nil.
func New(bus Bus, address uint8, configure func() error) *Sensor {
	return &Sensor{
		bus:       bus,
		address:   address,
		configure: configure,
	}
}

// Configure wakes the device on its internal clock and selects the
// ±2 g and ±250 °/s ranges the conversions assume.
func (s *Sensor) Configure() error {
	if s.configure != nil {
		if err := s.configure(); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}

	for _, w := range []struct {
		reg   uint8
		value byte
	}{
		{RegPwrMgmt1, 0x00},
		{RegAccelConfig, 0x00},
		{RegGyroConfig, 0x00},
	} {
		s.buf[0] = w.value
		if err := s.bus.WriteRegister(s.address, w.reg, s.buf[:1]); err != nil {
			return fmt.Errorf("write register 0x%02X: %w", w.reg, err)
		}
	}
	return nil
}

// Acceleration returns the acceleration in m/s².
func (s *Sensor) Acceleration() (watch.Vector3, error) {
	raw, err := s.readVector(RegAccelXOutH)
	if err != nil {
		return watch.Vector3{}, err
	}
	return Acceleration(raw), nil
}

// AngularRate returns the angular rate in rad/s.
func (s *Sensor) AngularRate() (watch.Vector3, error) {
	raw, err := s.readVector(RegGyroXOutH)
	if err != nil {
		return watch.Vector3{}, err
	}
	return AngularRate(raw), nil
}

// Temperature returns the die temperature in °C.
func (s *Sensor) Temperature() (float32, error) {
	if err := s.bus.ReadRegister(s.address, RegTempOutH, s.buf[:2]); err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", RegTempOutH, err)
	}
	return Celsius(word(s.buf[0:2])), nil
}

func (s *Sensor) readVector(reg uint8) ([3]int16, error) {
	if err := s.bus.ReadRegister(s.address, reg, s.buf[:6]); err != nil {
		return [3]int16{}, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	return [3]int16{word(s.buf[0:2]), word(s.buf[2:4]), word(s.buf[4:6])}, nil
}
