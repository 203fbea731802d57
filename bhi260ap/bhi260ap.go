// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bhi260ap

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// ProductID is the value of the product identifier register.
const ProductID = 0x89

// Host interface registers.
const (
	regResetReq   byte = 0x14
	regProductID  byte = 0x1C
	regRevisionID byte = 0x1D
	regBootStatus byte = 0x25
	regIntStatus  byte = 0x2D
	regErrorValue byte = 0x2E

	readFlag byte = 0x80
)

const (
	resetPulse = time.Millisecond
	bootDelay  = 100 * time.Millisecond
)

// BootStatus is the content of the boot status register.
type BootStatus byte

// Boot status bits.
const (
	BootFlashDetected      BootStatus = 0x01
	BootFlashVerifyDone    BootStatus = 0x02
	BootFlashVerifyError   BootStatus = 0x04
	BootNoFlash            BootStatus = 0x08
	BootHostInterfaceReady BootStatus = 0x10
	BootFirmwareVerifyDone BootStatus = 0x20
	BootFirmwareVerifyErr  BootStatus = 0x40
	BootFirmwareIdle       BootStatus = 0x80
)

// InterruptStatus is the content of the interrupt status register.
type InterruptStatus byte

// Interrupt status bits.
const (
	IntHost         InterruptStatus = 0x01
	IntWakeFIFO     InterruptStatus = 0x06
	IntNonWakeFIFO  InterruptStatus = 0x18
	IntStatus       InterruptStatus = 0x20
	IntDebug        InterruptStatus = 0x40
	IntResetOrFault InterruptStatus = 0x80
)

// ErrUnknownDevice is returned by Init when the product identifier does not
// match.
var ErrUnknownDevice = errors.New("bhi260ap: unknown device")

// Opts holds the configuration options.
type Opts struct {
	// Reset is the active low reset line. Optional.
	Reset gpio.PinOut
	// IRQ is the active high interrupt line. Optional; without it Update
	// polls the interrupt status register.
	IRQ gpio.PinIn
	// Frequency is the SPI clock. 0 means 1MHz.
	Frequency physic.Frequency
}

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Dev is a handle to a BHI260AP.
type Dev struct {
	c       spi.Conn
	rst     gpio.PinOut
	irq     gpio.PinIn
	handler func(InterruptStatus)
	sleep   func(time.Duration)
	debug   DebugF
}

// New connects to a BHI260AP. No register is accessed.
func New(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	f := opts.Frequency
	if f == 0 {
		f = physic.MegaHertz
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("bhi260ap: %w", err)
	}
	return &Dev{
		c:     c,
		rst:   opts.Reset,
		irq:   opts.IRQ,
		sleep: time.Sleep,
		debug: func(string, ...interface{}) {},
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("BHI260AP{%s}", d.c)
}

// EnableDebug sets the debugging output.
func (d *Dev) EnableDebug(f DebugF) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	d.debug = f
}

// Init resets the hub and verifies it is ready to talk to the host.
func (d *Dev) Init() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("bhi260ap: %w", err)
		}
		d.sleep(resetPulse)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("bhi260ap: %w", err)
		}
	}
	if err := d.writeReg(regResetReq, 0x01); err != nil {
		return err
	}
	d.sleep(bootDelay)
	id, err := d.readReg(regProductID)
	if err != nil {
		return err
	}
	if id != ProductID {
		return fmt.Errorf("%w: product id 0x%02X", ErrUnknownDevice, id)
	}
	st, err := d.BootStatus()
	if err != nil {
		return err
	}
	d.debug("bhi260ap: boot status 0x%02X", byte(st))
	if st&BootHostInterfaceReady == 0 {
		return fmt.Errorf("bhi260ap: host interface not ready, boot status 0x%02X", byte(st))
	}
	return nil
}

// Revision returns the silicon revision.
func (d *Dev) Revision() (byte, error) {
	return d.readReg(regRevisionID)
}

// BootStatus returns the boot status register.
func (d *Dev) BootStatus() (BootStatus, error) {
	v, err := d.readReg(regBootStatus)
	return BootStatus(v), err
}

// ErrorValue returns the last error reported by the firmware.
func (d *Dev) ErrorValue() (byte, error) {
	return d.readReg(regErrorValue)
}

// OnInterrupt sets the function called by Update with a non-zero interrupt
// status.
func (d *Dev) OnInterrupt(f func(InterruptStatus)) {
	d.handler = f
}

// Update services the hub. When an interrupt line is wired, the status
// register is only read while it is asserted.
func (d *Dev) Update() error {
	if d.irq != nil && d.irq.Read() == gpio.Low {
		return nil
	}
	v, err := d.readReg(regIntStatus)
	if err != nil {
		return err
	}
	if st := InterruptStatus(v); st != 0 && d.handler != nil {
		d.handler(st)
	}
	return nil
}

// Halt holds the hub in reset when the reset line is wired.
func (d *Dev) Halt() error {
	if d.rst == nil {
		return nil
	}
	return d.rst.Out(gpio.Low)
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var (
		w = [...]byte{readFlag | reg, 0}
		r [2]byte
	)
	if err := d.c.Tx(w[:], r[:]); err != nil {
		return 0, fmt.Errorf("bhi260ap: read 0x%02X: %w", reg, err)
	}
	d.debug("bhi260ap: read 0x%02X = 0x%02X", reg, r[1])
	return r[1], nil
}

func (d *Dev) writeReg(reg, v byte) error {
	d.debug("bhi260ap: write 0x%02X = 0x%02X", reg, v)
	w := [...]byte{reg &^ readFlag, v}
	if err := d.c.Tx(w[:], nil); err != nil {
		return fmt.Errorf("bhi260ap: write 0x%02X: %w", reg, err)
	}
	return nil
}
