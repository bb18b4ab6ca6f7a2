package watch

import "errors"

// Faults are fatal: the loop halts after the first one.
var (
	ErrInitialization   = errors.New("sensor initialization failed")
	ErrAccelerationRead = errors.New("accelerometer read failed")
	ErrAngularRateRead  = errors.New("gyroscope read failed")
	ErrTemperatureRead  = errors.New("temperature read failed")
)
