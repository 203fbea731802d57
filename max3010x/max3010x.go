// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package max3010x

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// DefaultAddress is the fixed I²C address of the family.
const DefaultAddress uint16 = 0x57

// PartID is the value of the part identifier register.
const PartID = 0x15

// Registers
const (
	regIntStat2  byte = 0x01
	regFIFOWrPtr byte = 0x04
	regOvfCount  byte = 0x05
	regFIFORdPtr byte = 0x06
	regFIFOData  byte = 0x07
	regFIFOCfg   byte = 0x08
	regModeCfg   byte = 0x09
	regSpO2Cfg   byte = 0x0A
	regLed1PA    byte = 0x0C
	regLed2PA    byte = 0x0D
	regTempInt   byte = 0x1F
	regTempFrac  byte = 0x20
	regTempCfg   byte = 0x21
	regPartID    byte = 0xFF
)

const (
	resetControl byte = 0x40
	dieTempReady byte = 0x02
	tempEnable   byte = 0x01
	rollOver     byte = 0x10

	sampleMask = 1<<18 - 1
)

// Mode is the LED mode.
type Mode byte

// Modes
const (
	ModeHeartRate Mode = 0x02 // Red only
	ModeSpO2      Mode = 0x03 // Red and IR
)

// SampleAverage is the number of samples averaged in the FIFO.
type SampleAverage byte

// Averages
const (
	Average1  SampleAverage = 0x00
	Average2  SampleAverage = 0x20
	Average4  SampleAverage = 0x40
	Average8  SampleAverage = 0x60
	Average16 SampleAverage = 0x80
	Average32 SampleAverage = 0xA0
)

// ADC range, sample rate and pulse width of the default setup: 4096nA full
// scale, 400 samples per second, 411µs pulses (18 bits).
const defaultSpO2Cfg byte = 0x20 | 0x0C | 0x03

// ErrOffline is returned when reading a sensor that did not initialize.
var ErrOffline = errors.New("max3010x: sensor offline")

// Opts holds the configuration options.
type Opts struct {
	Addr uint16
	// LEDAmplitude is the drive current of both LEDs, in 0.2mA steps.
	LEDAmplitude byte
	Average      SampleAverage
	Mode         Mode
}

// DefaultOpts is the setup of the board firmware: 6.4mA, 4 samples averaged,
// red and IR.
var DefaultOpts = Opts{
	Addr:         DefaultAddress,
	LEDAmplitude: 0x1F,
	Average:      Average4,
	Mode:         ModeSpO2,
}

// Dev is a handle to the sensor.
type Dev struct {
	d      *i2c.Dev
	opts   Opts
	online bool

	red  uint32
	ir   uint32
	temp physic.Temperature

	sleep func(time.Duration)
}

// New returns a handle to the sensor. It is offline until Init succeeds.
func New(bus i2c.Bus, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	if o.Mode == 0 {
		o.Mode = ModeSpO2
	}
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: o.Addr}, opts: o, sleep: time.Sleep}
}

func (d *Dev) String() string {
	return fmt.Sprintf("MAX3010x{%s}", d.d)
}

// Init probes the sensor, resets it and applies the setup. The sensor is
// online only if Init succeeds.
func (d *Dev) Init() error {
	d.online = false
	id, err := d.readReg(regPartID)
	if err != nil {
		return fmt.Errorf("max3010x: device not found: %w", err)
	}
	if id != PartID {
		return fmt.Errorf("max3010x: unexpected part id 0x%02X", id)
	}
	if err := d.writeReg(regModeCfg, resetControl); err != nil {
		return err
	}
	for i := 0; ; i++ {
		v, err := d.readReg(regModeCfg)
		if err != nil {
			return fmt.Errorf("max3010x: %w", err)
		}
		if v&resetControl == 0 {
			break
		}
		if i == 10 {
			return errors.New("max3010x: reset timed out")
		}
		d.sleep(time.Millisecond)
	}
	for _, w := range [][2]byte{
		{regFIFOCfg, byte(d.opts.Average) | rollOver},
		{regModeCfg, byte(d.opts.Mode)},
		{regSpO2Cfg, defaultSpO2Cfg},
		{regLed1PA, d.opts.LEDAmplitude},
		{regLed2PA, d.opts.LEDAmplitude},
		{regFIFOWrPtr, 0},
		{regOvfCount, 0},
		{regFIFORdPtr, 0},
	} {
		if err := d.writeReg(w[0], w[1]); err != nil {
			return err
		}
	}
	d.online = true
	return nil
}

// Online reports whether Init succeeded.
func (d *Dev) Online() bool {
	return d.online
}

// Update implements drivers.Sensor.
//
// Temperature reads the die temperature; any other measurement reads the
// most recent optical sample.
func (d *Dev) Update(which drivers.Measurement) error {
	if !d.online {
		return ErrOffline
	}
	if which&drivers.Temperature != 0 {
		t, err := d.readTemperature()
		if err != nil {
			return err
		}
		d.temp = t
	}
	if which&^drivers.Temperature != 0 {
		if err := d.readSample(); err != nil {
			return err
		}
	}
	return nil
}

// IR returns the last infrared reading, 0 when offline.
func (d *Dev) IR() uint32 {
	if !d.online {
		return 0
	}
	return d.ir
}

// Red returns the last red reading, 0 when offline.
func (d *Dev) Red() uint32 {
	if !d.online {
		return 0
	}
	return d.red
}

// Temperature returns the last die temperature, 0 when offline.
func (d *Dev) Temperature() physic.Temperature {
	if !d.online {
		return 0
	}
	return d.temp
}

// Halt puts the sensor in shutdown.
func (d *Dev) Halt() error {
	if !d.online {
		return nil
	}
	d.online = false
	return d.writeReg(regModeCfg, 0x80)
}

func (d *Dev) readTemperature() (physic.Temperature, error) {
	if err := d.writeReg(regTempCfg, tempEnable); err != nil {
		return 0, err
	}
	for i := 0; ; i++ {
		v, err := d.readReg(regIntStat2)
		if err != nil {
			return 0, fmt.Errorf("max3010x: %w", err)
		}
		if v&dieTempReady != 0 {
			break
		}
		if i == 100 {
			return 0, errors.New("max3010x: temperature conversion timed out")
		}
		d.sleep(time.Millisecond)
	}
	var b [2]byte
	if err := d.d.Tx([]byte{regTempInt}, b[:]); err != nil {
		return 0, fmt.Errorf("max3010x: %w", err)
	}
	// Integer part is two's complement; the fraction is in 1/16°C.
	c := physic.Temperature(int8(b[0]))*physic.Kelvin + physic.Temperature(b[1]&0x0F)*physic.Kelvin/16
	return physic.ZeroCelsius + c, nil
}

// readSample reads the newest FIFO entry. An entry holds 3 bytes per active
// LED, red first.
func (d *Dev) readSample() error {
	var b [6]byte
	n := len(b)
	if d.opts.Mode == ModeHeartRate {
		n = 3
	}
	if err := d.d.Tx([]byte{regFIFOData}, b[:n]); err != nil {
		return fmt.Errorf("max3010x: %w", err)
	}
	d.red = (uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])) & sampleMask
	if n == 6 {
		d.ir = (uint32(b[3])<<16 | uint32(b[4])<<8 | uint32(b[5])) & sampleMask
	}
	return nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.d.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Dev) writeReg(reg, v byte) error {
	if err := d.d.Tx([]byte{reg, v}, nil); err != nil {
		return fmt.Errorf("max3010x: %w", err)
	}
	return nil
}

var _ drivers.Sensor = &Dev{}
