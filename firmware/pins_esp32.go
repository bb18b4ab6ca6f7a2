//go:build esp32

package main

import (
	"machine"
	"time"
)

const (
	// Alarm outputs
	PIN_LED    = machine.GPIO2 // On-board LED
	PIN_BUZZER = machine.GPIO33

	// Sensor bus
	PIN_SDA       = machine.GPIO21
	PIN_SCL       = machine.GPIO22
	I2C_FREQUENCY = 100 * machine.KHz
	IMU_ADDRESS   = 0x68 // AD0 low

	STARTUP_DELAY = 255 * time.Millisecond
)
