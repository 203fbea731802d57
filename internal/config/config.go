// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the board configuration of the wristband daemon.
//
// Buses and pins are named as registered in periph's spireg, i2creg and
// gpioreg. An empty pin or SPI port name means the part is not fitted.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DisplayConfig describes how the JD9613 panel is wired.
type DisplayConfig struct {
	SPI             string `yaml:"spi"`
	DC              string `yaml:"dc"`
	Reset           string `yaml:"reset"`
	ResetActiveHigh bool   `yaml:"reset_active_high"`
	// ClockMHz is the SPI clock. 0 uses the driver default.
	ClockMHz         int  `yaml:"clock_mhz"`
	HardwareRotation bool `yaml:"hardware_rotation"`
	Rotation         int  `yaml:"rotation"`
	Brightness       int  `yaml:"brightness"`
	FlipHorizontal   bool `yaml:"flip_horizontal"`
}

// MotionConfig describes the BHI260AP wiring.
type MotionConfig struct {
	SPI    string `yaml:"spi"`
	Reset  string `yaml:"reset"`
	IRQ    string `yaml:"irq"`
	Enable string `yaml:"enable"`
}

// TouchConfig describes the capacitive button.
type TouchConfig struct {
	Pin string `yaml:"pin"`
	// Threshold is handed to the power manager for touch wakeup.
	Threshold int `yaml:"threshold"`
}

// BatteryConfig names the Linux IIO channel sampling the battery divider.
type BatteryConfig struct {
	// Dir is the IIO device directory in sysfs.
	Dir     string `yaml:"dir"`
	Channel int    `yaml:"channel"`
}

// Config is the top-level configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// I2C is the bus of the RTC. Empty is the first bus found.
	I2C string `yaml:"i2c"`

	Display DisplayConfig `yaml:"display"`
	Motion  MotionConfig  `yaml:"motion"`
	Touch   TouchConfig   `yaml:"touch"`
	Battery BatteryConfig `yaml:"battery"`

	// RTCIRQ is the pin wired to the PCF85063 INT output.
	RTCIRQ    string `yaml:"rtc_irq"`
	Vibration string `yaml:"vibration"`
	// Particle enables the MAX3010x on the I²C bus.
	Particle bool `yaml:"particle"`

	// Refresh is the cron schedule of the watchface redraw.
	Refresh string `yaml:"refresh"`
	// BatteryReport is the cron schedule of the battery log line.
	BatteryReport string `yaml:"battery_report"`

	// Simulator renders the panel to the terminal instead of SPI.
	Simulator bool `yaml:"simulator"`
}

const (
	defaultRefresh       = "@every 1m"
	defaultBatteryReport = "@every 5m"
	defaultBrightness    = 175
	defaultThreshold     = 2000
)

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Display: DisplayConfig{
			SPI:        "SPI0.0",
			DC:         "GPIO25",
			Reset:      "GPIO24",
			Rotation:   1,
			Brightness: defaultBrightness,
		},
		Motion: MotionConfig{
			SPI:    "SPI0.1",
			Reset:  "GPIO17",
			IRQ:    "GPIO27",
			Enable: "GPIO22",
		},
		Touch: TouchConfig{
			Pin:       "GPIO5",
			Threshold: defaultThreshold,
		},
		Battery: BatteryConfig{
			Dir: "/sys/bus/iio/devices/iio:device0",
		},
		RTCIRQ:        "GPIO6",
		Vibration:     "GPIO13",
		Refresh:       defaultRefresh,
		BatteryReport: defaultBatteryReport,
	}
}

// Normalize fills zero or out of range values with defaults so that
// partially filled files still work.
func (c *Config) Normalize() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Display.Rotation < 0 || c.Display.Rotation > 3 {
		c.Display.Rotation = 0
	}
	if c.Display.Brightness <= 0 || c.Display.Brightness > 255 {
		c.Display.Brightness = defaultBrightness
	}
	if c.Display.ClockMHz < 0 {
		c.Display.ClockMHz = 0
	}
	if c.Touch.Threshold <= 0 {
		c.Touch.Threshold = defaultThreshold
	}
	if c.Refresh == "" {
		c.Refresh = defaultRefresh
	}
	if c.BatteryReport == "" {
		c.BatteryReport = defaultBatteryReport
	}
}

// Load reads the YAML file at path.
//
// When the file does not exist, the default configuration is written there
// with 0600 permissions and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return cfg, Save(path, cfg)
		}
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically through a temporary file.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".wristband-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
