// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bhi260ap

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func newDev(t *testing.T, opts *Opts, ops ...conntest.IO) (*Dev, *spitest.Playback) {
	t.Helper()
	pb := &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
	d, err := New(pb, opts)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	return d, pb
}

var bootOps = []conntest.IO{
	{W: []byte{regResetReq, 0x01}},
	{W: []byte{0x80 | regProductID, 0}, R: []byte{0, ProductID}},
	{W: []byte{0x80 | regBootStatus, 0}, R: []byte{0, byte(BootHostInterfaceReady | BootNoFlash)}},
}

func TestInit(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST"}
	d, pb := newDev(t, &Opts{Reset: rst}, bootOps...)
	var lines int
	d.EnableDebug(func(string, ...interface{}) { lines++ })
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if rst.Read() != gpio.High {
		t.Fatal("reset must be released")
	}
	if lines == 0 {
		t.Fatal("no debug output")
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if rst.Read() != gpio.Low {
		t.Fatal("Halt must hold the reset line")
	}
}

func TestInit_UnknownDevice(t *testing.T) {
	d, _ := newDev(t, nil,
		conntest.IO{W: []byte{regResetReq, 0x01}},
		conntest.IO{W: []byte{0x80 | regProductID, 0}, R: []byte{0, 0x00}},
	)
	if err := d.Init(); !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("Init() = %v", err)
	}
}

func TestInit_NotReady(t *testing.T) {
	d, _ := newDev(t, nil,
		conntest.IO{W: []byte{regResetReq, 0x01}},
		conntest.IO{W: []byte{0x80 | regProductID, 0}, R: []byte{0, ProductID}},
		conntest.IO{W: []byte{0x80 | regBootStatus, 0}, R: []byte{0, 0x00}},
	)
	if err := d.Init(); err == nil {
		t.Fatal("expected error")
	}
}

func TestInit_NoDevice(t *testing.T) {
	d, _ := newDev(t, nil)
	if err := d.Init(); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdate(t *testing.T) {
	irq := &gpiotest.Pin{N: "IRQ", L: gpio.Low}
	d, pb := newDev(t, &Opts{IRQ: irq},
		conntest.IO{W: []byte{0x80 | regIntStatus, 0}, R: []byte{0, byte(IntHost | IntStatus)}},
	)
	var got []InterruptStatus
	d.OnInterrupt(func(s InterruptStatus) { got = append(got, s) })
	// Line not asserted: no bus access.
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	irq.L = gpio.High
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != IntHost|IntStatus {
		t.Fatalf("handler got %v", got)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_Polled(t *testing.T) {
	d, _ := newDev(t, nil,
		conntest.IO{W: []byte{0x80 | regIntStatus, 0}, R: []byte{0, 0}},
		conntest.IO{W: []byte{0x80 | regErrorValue, 0}, R: []byte{0, 0x21}},
		conntest.IO{W: []byte{0x80 | regRevisionID, 0}, R: []byte{0, 0x03}},
	)
	called := false
	d.OnInterrupt(func(InterruptStatus) { called = true })
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("handler called without interrupt")
	}
	if v, err := d.ErrorValue(); err != nil || v != 0x21 {
		t.Fatalf("ErrorValue() = %#x, %v", v, err)
	}
	if v, err := d.Revision(); err != nil || v != 0x03 {
		t.Fatalf("Revision() = %#x, %v", v, err)
	}
}
