//go:build esp32 || rp2040

//go:generate tinygo flash -target=esp32

package main

import (
	"machine"
	"time"

	"github.com/itohio/shockwatch/pkg/console"
	"github.com/itohio/shockwatch/pkg/imu"
	"github.com/itohio/shockwatch/pkg/watch"
	"tinygo.org/x/drivers/mpu6050"
)

func main() {
	// Alarm outputs start silent
	PIN_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_BUZZER.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED.Low()
	PIN_BUZZER.Low()

	machine.I2C0.Configure(machine.I2CConfig{
		SDA:       PIN_SDA,
		SCL:       PIN_SCL,
		Frequency: I2C_FREQUENCY,
	})

	// Let the sensor power up before talking to it
	time.Sleep(STARTUP_DELAY)

	// The driver selects the clock source; the sensor then wakes the chip,
	// fixes the full scale ranges and reads every channel over the bus
	dev := mpu6050.New(machine.I2C0)
	sensor := imu.New(machine.I2C0, IMU_ADDRESS, dev.Configure)

	println("---")

	signaler := watch.NewSignaler(PIN_BUZZER, PIN_LED, time.Sleep)
	loop := watch.New(sensor, signaler, time.Sleep, console.NewWriter(machine.Serial, nil))

	// Run only returns on a fault, which the console already reported
	err := loop.Run()
	println("halted:", err.Error())
	for {
		time.Sleep(time.Hour)
	}
}
