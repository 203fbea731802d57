// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package amoledsim emulates the JD9613 AMOLED controller and outputs its
// memory to the terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your wristband to come by mail: Dev is a
// jd9613.Transport so the real driver runs unmodified on top of it.
package amoledsim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/wristband/jd9613"
	"github.com/GermanBionicSystems/wristband/jd9613/rgb565"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Commands decoded by the emulator.
const (
	swReset byte = 0x01
	slpIn   byte = 0x10
	slpOut  byte = 0x11
	dispOff byte = 0x28
	dispOn  byte = 0x29
	caSet   byte = 0x2A
	raSet   byte = 0x2B
	ramWr   byte = 0x2C
	madCtl  byte = 0x36
	wrDisBV byte = 0x51
	pageSel byte = 0xFE
)

const (
	madctlMY   byte = 0x80
	madctlMX   byte = 0x40
	madctlMV   byte = 0x20
	madctlFlip byte = 0x02
)

// Opts represents the options available for the emulator.
type Opts struct {
	// Scale is the number of panel pixels per terminal cell side. 0 means 1.
	Scale   int
	Palette *ansi256.Palette
	// W is where the frames are written. nil means stdout.
	W io.Writer

	_ struct{}
}

// Dev is a JD9613 emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	ram        []uint16
	page       byte
	madctl     byte
	col0, col1 int
	row0, row1 int
	on         bool
	asleep     bool
	brightness byte
	frames     int

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	s := opts.Scale
	if s <= 0 {
		s = 1
	}
	d := &Dev{
		w:       w,
		scale:   s,
		palette: *p,
		ram:     make([]uint16, jd9613.Width*jd9613.Height),
	}
	d.reset()
	return d
}

func (d *Dev) String() string {
	return "AMOLEDSim"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// SendParam implements jd9613.Transport.
//
// Display commands are only decoded on page 0. Registers of the other pages
// share their addresses and are accepted as is.
func (d *Dev) SendParam(cmd byte, params []byte) error {
	if cmd == pageSel {
		if len(params) != 1 {
			return fmt.Errorf("amoledsim: page select takes 1 byte, got %d", len(params))
		}
		d.page = params[0]
		return nil
	}
	if d.page != 0 {
		return nil
	}
	switch cmd {
	case swReset:
		d.reset()
	case slpIn:
		d.asleep = true
	case slpOut:
		d.asleep = false
	case dispOff:
		d.on = false
	case dispOn:
		d.on = true
	case caSet, raSet:
		if len(params) != 4 {
			return fmt.Errorf("amoledsim: command 0x%02X takes 4 bytes, got %d", cmd, len(params))
		}
		start := int(params[0])<<8 | int(params[1])
		end := int(params[2])<<8 | int(params[3])
		if cmd == caSet {
			d.col0, d.col1 = start, end
		} else {
			d.row0, d.row1 = start, end
		}
	case madCtl:
		if len(params) != 1 {
			return fmt.Errorf("amoledsim: MADCTL takes 1 byte, got %d", len(params))
		}
		d.madctl = params[0]
	case wrDisBV:
		if len(params) != 1 {
			return fmt.Errorf("amoledsim: brightness takes 1 byte, got %d", len(params))
		}
		d.brightness = params[0]
	}
	// Vendor registers of the power-on sequence are accepted as is.
	return nil
}

// SendColor implements jd9613.Transport.
//
// Pixels fill the column/row window in scan order and wrap around at its end.
func (d *Dev) SendColor(cmd byte, pixels []uint16) error {
	if cmd != ramWr || d.page != 0 {
		return fmt.Errorf("amoledsim: unexpected pixel command 0x%02X on page %d", cmd, d.page)
	}
	if d.col1 < d.col0 || d.row1 < d.row0 {
		return fmt.Errorf("amoledsim: empty window [%d,%d]x[%d,%d]", d.col0, d.col1, d.row0, d.row1)
	}
	c, r := d.col0, d.row0
	for _, p := range pixels {
		d.put(c, r, p)
		if c++; c > d.col1 {
			c = d.col0
			if r++; r > d.row1 {
				r = d.row0
			}
		}
	}
	return nil
}

// Refresh writes the panel to the console.
func (d *Dev) Refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	rows := (jd9613.Height + d.scale - 1) / d.scale
	if d.frames != 0 {
		fmt.Fprintf(&d.buf, "\033[%dA", rows)
	}
	_, _ = d.buf.WriteString("\r\033[0m")
	for y := 0; y < jd9613.Height; y += d.scale {
		for x := 0; x < jd9613.Width; x += d.scale {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.visible(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.frames++
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Image returns a copy of the controller memory in native orientation.
func (d *Dev) Image() *rgb565.Image {
	img := rgb565.NewImage(image.Rect(0, 0, jd9613.Width, jd9613.Height))
	copy(img.Pix, d.ram)
	return img
}

// On reports whether the panel is lit: display on and not sleeping.
func (d *Dev) On() bool {
	return d.on && !d.asleep
}

// Brightness returns the last brightness level received.
func (d *Dev) Brightness() byte {
	return d.brightness
}

// MADCTL returns the last scan order received.
func (d *Dev) MADCTL() byte {
	return d.madctl
}

func (d *Dev) reset() {
	for i := range d.ram {
		d.ram[i] = 0
	}
	d.page = 0
	d.madctl = 0
	d.col0, d.col1 = 0, jd9613.Width-1
	d.row0, d.row1 = 0, jd9613.Height-1
	d.on = false
	d.asleep = true
	d.brightness = 0xFF
}

// put writes one pixel at the logical address (c, r), applying the scan
// order.
func (d *Dev) put(c, r int, p uint16) {
	x, y := c, r
	if d.madctl&madctlMV != 0 {
		x, y = r, c
	}
	if (d.madctl&madctlMX != 0) != (d.madctl&madctlFlip != 0) {
		x = jd9613.Width - 1 - x
	}
	if d.madctl&madctlMY != 0 {
		y = jd9613.Height - 1 - y
	}
	if x < 0 || y < 0 || x >= jd9613.Width || y >= jd9613.Height {
		return
	}
	d.ram[y*jd9613.Width+x] = p
}

// visible returns the color emitted by the pixel at (x, y).
func (d *Dev) visible(x, y int) color.NRGBA {
	if !d.On() {
		return color.NRGBA{A: 255}
	}
	r, g, b := rgb565.Color(d.ram[y*jd9613.Width+x]).RGB()
	l := uint16(d.brightness)
	return color.NRGBA{byte(uint16(r) * l / 255), byte(uint16(g) * l / 255), byte(uint16(b) * l / 255), 255}
}

var _ jd9613.Transport = &Dev{}
var _ fmt.Stringer = &Dev{}
