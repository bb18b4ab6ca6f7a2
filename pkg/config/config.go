package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the monitor application configuration.
// Alarm thresholds are fixed in firmware.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Display DisplayConfig `yaml:"display"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// DisplayConfig contains history and plotting parameters.
type DisplayConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
	MaxPoints     int     `yaml:"max_points"` // Points drawn per trace after decimation
}

// MockConfig contains simulated sensor configuration.
type MockConfig struct {
	Acceleration     [3]float32    `yaml:"acceleration,flow"` // Resting acceleration (m/s²)
	Temperature      float32       `yaml:"temperature"`       // Starting temperature (°C)
	NoiseLevel       float32       `yaml:"noise_level"`       // Peak noise on every channel
	BumpPeriod       time.Duration `yaml:"bump_period"`       // Time between X axis knocks (0 = never)
	BumpMagnitude    float32       `yaml:"bump_magnitude"`    // Knock size (m/s²)
	TemperatureDrift float32       `yaml:"temperature_drift"` // °C per second
	FailAfter        int           `yaml:"fail_after"`        // Fail the n-th sensor read (0 = never)
	Speed            float64       `yaml:"speed"`             // Simulation speed relative to real time
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyUSB0" on Linux/Mac
			BaudRate: 115200,
		},
		Display: DisplayConfig{
			WindowSeconds: 30,
			MaxPoints:     1000,
		},
		Mock: MockConfig{
			Acceleration:     [3]float32{0, 0, 9.81},
			Temperature:      21,
			NoiseLevel:       0.05,
			BumpPeriod:       7 * time.Second,
			BumpMagnitude:    1.5,
			TemperatureDrift: 0.05,
			FailAfter:        0,
			Speed:            1,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Window returns the display window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Display.WindowSeconds * float64(time.Second))
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Display.WindowSeconds <= 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}
	if c.Display.MaxPoints <= 0 {
		c.Display.MaxPoints = def.Display.MaxPoints
	}

	if c.Mock.Speed <= 0 {
		c.Mock.Speed = def.Mock.Speed
	}
}
