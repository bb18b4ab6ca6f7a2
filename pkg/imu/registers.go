package imu

// DefaultAddress is the MPU6050 bus address with AD0 low.
const DefaultAddress uint8 = 0x68

const (
	RegGyroConfig  uint8 = 0x1B // FS_SEL in bits 4:3
	RegAccelConfig uint8 = 0x1C // AFS_SEL in bits 4:3
	RegAccelXOutH  uint8 = 0x3B // 6 bytes, X/Y/Z big-endian
	RegTempOutH    uint8 = 0x41 // 2 bytes, big-endian
	RegGyroXOutH   uint8 = 0x43 // 6 bytes, X/Y/Z big-endian
	RegPwrMgmt1    uint8 = 0x6B // SLEEP in bit 6, CLKSEL in bits 2:0
)

// Scale factors of the power-on full scale ranges, ±2 g and ±250 °/s.
const (
	accelLSBPerG   = 16384
	gyroLSBPerDegS = 131
	tempLSBPerDegC = 340
	tempOffset     = 36.53
)
