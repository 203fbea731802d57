// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf85063

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the only address of the chip.
const DefaultAddress uint16 = 0x51

const (
	regControl1    byte = 0x00
	regControl2    byte = 0x01
	regSeconds     byte = 0x04
	regSecondAlarm byte = 0x0B

	control1Stop  byte = 0x20
	control2AIE   byte = 0x80
	control2AF    byte = 0x40
	secondsOS     byte = 0x80
	alarmDisabled byte = 0x80
)

// ErrClockIntegrity is returned by Now when the oscillator stopped since the
// time was last set.
var ErrClockIntegrity = errors.New("pcf85063: clock integrity not guaranteed")

// Opts holds the configuration options.
type Opts struct {
	Addr uint16
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Addr: DefaultAddress}

// Dev is a handle to a PCF85063.
type Dev struct {
	d *i2c.Dev
}

// New returns a handle to a PCF85063. No I/O is done.
func New(bus i2c.Bus, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

func (d *Dev) String() string {
	return fmt.Sprintf("PCF85063{%s}", d.d)
}

// Init probes the chip and starts the oscillator if it was stopped.
func (d *Dev) Init() error {
	c, err := d.readReg(regControl1)
	if err != nil {
		return fmt.Errorf("pcf85063: device not found: %w", err)
	}
	if c&control1Stop != 0 {
		return d.writeRegs(regControl1, c&^control1Stop)
	}
	return nil
}

// Now reads the current time.
func (d *Dev) Now() (time.Time, error) {
	var b [7]byte
	if err := d.d.Tx([]byte{regSeconds}, b[:]); err != nil {
		return time.Time{}, fmt.Errorf("pcf85063: %w", err)
	}
	if b[0]&secondsOS != 0 {
		return time.Time{}, ErrClockIntegrity
	}
	return time.Date(
		2000+fromBCD(b[6]),
		time.Month(fromBCD(b[5]&0x1F)),
		fromBCD(b[3]&0x3F),
		fromBCD(b[2]&0x3F),
		fromBCD(b[1]&0x7F),
		fromBCD(b[0]&0x7F),
		0, time.UTC), nil
}

// SetTime sets the clock. Sub-second precision is dropped.
func (d *Dev) SetTime(t time.Time) error {
	t = t.UTC()
	if y := t.Year(); y < 2000 || y > 2099 {
		return fmt.Errorf("pcf85063: year %d out of range", y)
	}
	return d.writeRegs(regSeconds,
		toBCD(t.Second()),
		toBCD(t.Minute()),
		toBCD(t.Hour()),
		toBCD(t.Day()),
		byte(t.Weekday()),
		toBCD(int(t.Month())),
		toBCD(t.Year()-2000))
}

// SetAlarm sets the alarm to fire every day at the given time. The alarm
// interrupt must be enabled with EnableAlarm.
func (d *Dev) SetAlarm(hour, minute, second int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return fmt.Errorf("pcf85063: invalid alarm %02d:%02d:%02d", hour, minute, second)
	}
	return d.writeRegs(regSecondAlarm, toBCD(second), toBCD(minute), toBCD(hour), alarmDisabled, alarmDisabled)
}

// EnableAlarm enables or disables the interrupt line on alarm.
func (d *Dev) EnableAlarm(on bool) error {
	c, err := d.readReg(regControl2)
	if err != nil {
		return fmt.Errorf("pcf85063: %w", err)
	}
	if on {
		c |= control2AIE
	} else {
		c &^= control2AIE
	}
	return d.writeRegs(regControl2, c)
}

// AlarmFired reports whether the alarm flag is set.
func (d *Dev) AlarmFired() (bool, error) {
	c, err := d.readReg(regControl2)
	if err != nil {
		return false, fmt.Errorf("pcf85063: %w", err)
	}
	return c&control2AF != 0, nil
}

// ClearAlarm clears the alarm flag, releasing the interrupt line.
func (d *Dev) ClearAlarm() error {
	c, err := d.readReg(regControl2)
	if err != nil {
		return fmt.Errorf("pcf85063: %w", err)
	}
	return d.writeRegs(regControl2, c&^control2AF)
}

// Halt implements conn.Resource. The clock keeps running.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.d.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Dev) writeRegs(reg byte, values ...byte) error {
	if err := d.d.Tx(append([]byte{reg}, values...), nil); err != nil {
		return fmt.Errorf("pcf85063: %w", err)
	}
	return nil
}

func toBCD(v int) byte {
	return byte(v/10)<<4 | byte(v%10)
}

func fromBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}
