// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GermanBionicSystems/wristband"
	"github.com/GermanBionicSystems/wristband/amoledsim"
	"github.com/GermanBionicSystems/wristband/battery"
	"github.com/GermanBionicSystems/wristband/bhi260ap"
	"github.com/GermanBionicSystems/wristband/internal/config"
	"github.com/GermanBionicSystems/wristband/internal/face"
	"github.com/GermanBionicSystems/wristband/internal/log"
	"github.com/GermanBionicSystems/wristband/jd9613"
	"github.com/GermanBionicSystems/wristband/max3010x"
	"github.com/GermanBionicSystems/wristband/pcf85063"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
)

// board is the running daemon state.
type board struct {
	w      *wristband.Dev
	face   *face.Renderer
	now    func() time.Time
	ports  []io.Closer
	sim    *amoledsim.Dev
	render bool
}

func (b *board) close() {
	if err := b.w.Halt(); err != nil {
		log.Error("halt failed", err)
	}
	if b.sim != nil {
		_ = b.sim.Halt()
	}
	for _, p := range b.ports {
		_ = p.Close()
	}
}

func rotationMode(cfg *config.Config) jd9613.RotationMode {
	if cfg.Display.HardwareRotation {
		return jd9613.HardwareRotation
	}
	return jd9613.SoftwareRotation
}

// newSimBoard returns a board whose panel is rendered on out. Frames are only
// written when out is a terminal.
func newSimBoard(cfg *config.Config, out *os.File) (*board, error) {
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	if !tty {
		log.Info("output is not a terminal, frames are not rendered")
	}
	return simBoard(cfg, colorable.NewColorable(out), tty), nil
}

func simBoard(cfg *config.Config, w io.Writer, render bool) *board {
	sim := amoledsim.New(&amoledsim.Opts{W: w, Scale: 2})
	b := &board{sim: sim, render: render, now: time.Now}
	b.w = wristband.New(&wristband.Opts{
		Panel: func() (*jd9613.Dev, error) {
			return jd9613.New(sim, &jd9613.Opts{Rotation: rotationMode(cfg)})
		},
	})
	return b
}

// newBoard opens the buses and pins named in cfg.
func newBoard(cfg *config.Config) (*board, error) {
	b := &board{now: time.Now}
	opts := &wristband.Opts{TouchThreshold: cfg.Touch.Threshold}
	fail := func(err error) (*board, error) {
		for _, p := range b.ports {
			_ = p.Close()
		}
		return nil, err
	}

	d := &cfg.Display
	dc, err := pin(d.DC)
	if err != nil {
		return fail(err)
	}
	rst, err := pin(d.Reset)
	if err != nil {
		return fail(err)
	}
	port, err := spireg.Open(d.SPI)
	if err != nil {
		return fail(fmt.Errorf("display: %w", err))
	}
	b.ports = append(b.ports, port)
	t, err := jd9613.NewSPI(port, dc, &jd9613.SPIOpts{Frequency: physic.Frequency(d.ClockMHz) * physic.MegaHertz})
	if err != nil {
		return fail(err)
	}
	popts := jd9613.Opts{Reset: rst, ResetActiveHigh: d.ResetActiveHigh, Rotation: rotationMode(cfg)}
	opts.Panel = func() (*jd9613.Dev, error) {
		return jd9613.New(t, &popts)
	}

	if bus, err := i2creg.Open(cfg.I2C); err != nil {
		log.Error("i2c bus unavailable, rtc disabled", err, "bus", cfg.I2C)
	} else {
		b.ports = append(b.ports, bus)
		opts.I2C = bus
		opts.RTC = pcf85063.New(bus, nil)
		if cfg.Particle {
			opts.Particle = max3010x.New(bus, nil)
		}
	}
	if opts.RTCIRQ, err = pin(cfg.RTCIRQ); err != nil {
		return fail(err)
	}

	if m := &cfg.Motion; m.SPI != "" {
		mp, err := spireg.Open(m.SPI)
		if err != nil {
			return fail(fmt.Errorf("motion: %w", err))
		}
		b.ports = append(b.ports, mp)
		mrst, err := pin(m.Reset)
		if err != nil {
			return fail(err)
		}
		irq, err := pin(m.IRQ)
		if err != nil {
			return fail(err)
		}
		if opts.Motion, err = bhi260ap.New(mp, &bhi260ap.Opts{Reset: mrst, IRQ: irq}); err != nil {
			return fail(err)
		}
		if opts.MotionEnable, err = pin(m.Enable); err != nil {
			return fail(err)
		}
	}

	if opts.Touch, err = pin(cfg.Touch.Pin); err != nil {
		return fail(err)
	}
	if opts.Vibration, err = pin(cfg.Vibration); err != nil {
		return fail(err)
	}
	if cfg.Battery.Dir != "" {
		opts.Battery = battery.NewIIOAt(cfg.Battery.Dir, cfg.Battery.Channel)
	}
	opts.Power = &hostPower{state: powerState, wakeup: touchWakeup}
	b.w = wristband.New(opts)
	return b, nil
}

// pin looks a GPIO up by name. An empty name is a pin that is not wired.
func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return p, nil
}
