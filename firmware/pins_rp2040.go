//go:build rp2040

package main

import (
	"machine"
	"time"
)

const (
	// Alarm outputs
	PIN_LED    = machine.LED
	PIN_BUZZER = machine.GP15

	// Sensor bus
	PIN_SDA       = machine.GP4
	PIN_SCL       = machine.GP5
	I2C_FREQUENCY = 100 * machine.KHz
	IMU_ADDRESS   = 0x68 // AD0 low

	STARTUP_DELAY = 255 * time.Millisecond
)
