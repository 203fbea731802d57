// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/wristband/jd9613/rgb565"
	"periph.io/x/conn/v3/gpio"
)

// Native panel geometry, in pixels.
const (
	Width  = 126
	Height = 294
)

// DefaultBrightness is the level the board firmware starts with.
const DefaultBrightness = 175

const (
	resetHold     = 100 * time.Millisecond
	swResetSettle = 20 * time.Millisecond
	wakeSettle    = 120 * time.Millisecond
)

var (
	// ErrOutOfMemory is returned by New when the frame buffer cannot be
	// allocated.
	ErrOutOfMemory = errors.New("jd9613: no memory for frame buffer")
	// ErrUnsupportedFormat is returned by New for a pixel width other than 16
	// bits.
	ErrUnsupportedFormat = errors.New("jd9613: unsupported pixel width")
	// ErrInvalidArgument is returned for an empty or oversized bitmap.
	ErrInvalidArgument = errors.New("jd9613: invalid argument")
	// ErrHalted is returned when drawing on a panel that was halted.
	ErrHalted = errors.New("jd9613: halted")
)

// TransportError is a failed command write.
type TransportError struct {
	Cmd byte
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jd9613: command 0x%02X: %v", e.Cmd, e.Err)
}

// Unwrap returns the transport failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// RotationMode selects how rotation is achieved.
type RotationMode int

const (
	// SoftwareRotation keeps the controller scan order native and remaps the
	// pixels of rotation 1 and 3 on the host.
	SoftwareRotation RotationMode = iota
	// HardwareRotation programs the controller scan order for every rotation.
	HardwareRotation
)

func (m RotationMode) String() string {
	switch m {
	case SoftwareRotation:
		return "software"
	case HardwareRotation:
		return "hardware"
	default:
		return fmt.Sprintf("RotationMode(%d)", int(m))
	}
}

// Opts defines the options for the device.
type Opts struct {
	// BitsPerPixel must be 16. 0 means 16.
	BitsPerPixel int
	// Reset is the optional reset line. Without it the controller is reset
	// with a software command.
	Reset gpio.PinIO
	// ResetActiveHigh is true when the controller is held in reset with the
	// line high.
	ResetActiveHigh bool
	// Rotation selects the rotation policy.
	Rotation RotationMode
	// Alloc allocates the frame buffer of n pixels. It returns nil when out
	// of memory. nil uses make.
	Alloc func(n int) []uint16
}

// DefaultOpts is the board configuration: no reset line wired, software
// rotation.
var DefaultOpts = Opts{
	BitsPerPixel: 16,
	Rotation:     SoftwareRotation,
}

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Dev is a handle to a JD9613 AMOLED controller.
type Dev struct {
	t        Transport
	rst      gpio.PinIO
	rstLevel gpio.Level
	mode     RotationMode

	rotation   uint8
	flip       bool
	width      int
	height     int
	brightness uint8
	halted     bool

	// fb holds the remapped pixels in software rotation.
	fb []uint16
	// next is the double buffer used by Draw.
	next *rgb565.Image

	sleep func(time.Duration)
	debug DebugF
}

// New returns a Dev for the controller behind t.
//
// The panel is neither reset nor initialized; call Reset then Init.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.BitsPerPixel != 0 && opts.BitsPerPixel != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedFormat, opts.BitsPerPixel)
	}
	d := &Dev{
		t:          t,
		rst:        opts.Reset,
		rstLevel:   gpio.Level(opts.ResetActiveHigh),
		mode:       opts.Rotation,
		brightness: DefaultBrightness,
		sleep:      time.Sleep,
		debug:      func(string, ...interface{}) {},
	}
	if d.rst != nil {
		if err := d.rst.Out(!d.rstLevel); err != nil {
			return nil, fmt.Errorf("jd9613: reset pin: %w", err)
		}
	}
	alloc := opts.Alloc
	if alloc == nil {
		alloc = func(n int) []uint16 { return make([]uint16, n) }
	}
	if d.fb = alloc(Width * Height); d.fb == nil {
		if d.rst != nil {
			_ = d.rst.In(gpio.Float, gpio.NoEdge)
		}
		return nil, ErrOutOfMemory
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("jd9613.Dev{%v, %s, rotation %d}", d.t, d.mode, d.rotation)
}

// EnableDebug sets the function used to trace MADCTL writes.
func (d *Dev) EnableDebug(f DebugF) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	d.debug = f
}

// Reset resets the controller.
//
// With a reset line it is held active for 100ms then released for 100ms,
// otherwise a software reset is sent followed by 20ms.
func (d *Dev) Reset() error {
	if d.rst == nil {
		if err := d.sendParam(swReset, nil); err != nil {
			return err
		}
		d.sleep(swResetSettle)
		return nil
	}
	if err := d.rst.Out(d.rstLevel); err != nil {
		return fmt.Errorf("jd9613: reset pin: %w", err)
	}
	d.sleep(resetHold)
	if err := d.rst.Out(!d.rstLevel); err != nil {
		return fmt.Errorf("jd9613: reset pin: %w", err)
	}
	d.sleep(resetHold)
	return nil
}

// Init sends the power-on sequence, selects rotation 1 without flip and turns
// the panel on.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}
	for i := range initSequence {
		c := &initSequence[i]
		if c.Len == cmdEnd {
			break
		}
		eh.sendParam(c.Addr, c.params())
	}
	if eh.err != nil {
		return eh.err
	}
	d.flip = false
	if err := d.SetRotation(1); err != nil {
		return err
	}
	eh.sendParam(slpOut, nil)
	eh.delay(wakeSettle)
	eh.sendParam(dispOn, nil)
	eh.delay(wakeSettle)
	return eh.err
}

// SetRotation selects one of the 4 orientations. Values above 3 select 0.
//
// In software rotation the controller scan order stays native except for
// rotation 2, and DrawBitmap remaps the pixels of rotation 1 and 3.
func (d *Dev) SetRotation(r uint8) error {
	var v byte
	swapped := false
	switch d.mode {
	case HardwareRotation:
		switch r {
		case 1:
			v = madctlMX | madctlMV
			swapped = true
		case 2:
			v = madctlMY | madctlMX
		case 3:
			v = madctlMY | madctlMV
			swapped = true
		default:
			r = 0
		}
		v |= madctlFlip
	default:
		switch r {
		case 1, 3:
		case 2:
			v = madctlMY | madctlMX
		default:
			r = 0
		}
		if d.flip {
			v |= madctlFlip
		}
	}
	v |= madctlRGB
	if swapped {
		d.width, d.height = Height, Width
	} else {
		d.width, d.height = Width, Height
	}
	d.rotation = r
	d.debug("jd9613: set rotation %d: reg 0x%02X data 0x%02X width %d height %d", r, madCtl, v, d.width, d.height)
	return d.sendParam(madCtl, []byte{v})
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() uint8 {
	return d.rotation
}

// FlipHorizontal mirrors the panel horizontally and applies the current
// rotation again.
func (d *Dev) FlipHorizontal(enable bool) error {
	d.flip = enable
	return d.SetRotation(d.rotation)
}

// Size returns the geometry programmed in the controller. It is 0x0 until
// Init.
func (d *Dev) Size() (w, h int) {
	return d.width, d.height
}

// DrawBitmap writes a bitmap to the panel.
//
// The window width is xStart+xEnd and its height yStart+yEnd; pixels must hold
// at least that many RGB565 values in row-major order. pixels is only used
// for the duration of the call.
func (d *Dev) DrawBitmap(xStart, yStart, xEnd, yEnd int, pixels []uint16) error {
	if xStart >= xEnd || yStart >= yEnd {
		return fmt.Errorf("%w: start (%d,%d) must be smaller than end (%d,%d)", ErrInvalidArgument, xStart, yStart, xEnd, yEnd)
	}
	if d.halted {
		return ErrHalted
	}
	width := xStart + xEnd
	height := yStart + yEnd
	n := width * height
	if len(pixels) < n {
		return fmt.Errorf("%w: %d pixels for a %dx%d window", ErrInvalidArgument, len(pixels), width, height)
	}
	x, y, xe, ye := xStart, yStart, width, height
	remap := d.remapped()
	if remap {
		if n > len(d.fb) {
			return fmt.Errorf("%w: %dx%d window exceeds the frame buffer", ErrInvalidArgument, width, height)
		}
		x = Width - (yStart + height)
		y = xStart
		xe = height
		ye = width
	}
	if d.rotation == 2 {
		x += 2
		xe += 2
	}
	eh := errorHandler{d: d}
	eh.sendParam(caSet, window(x, xe))
	eh.sendParam(raSet, window(y, ye))
	if eh.err != nil {
		return eh.err
	}
	data := pixels[:n]
	if remap {
		transpose(d.fb, data, width, height)
		data = d.fb[:n]
	}
	return d.sendColor(ramWr, data)
}

// SetAddrWindow sets the controller write window to w x h pixels at (x, y)
// without any rotation handling.
func (d *Dev) SetAddrWindow(x, y, w, h int) error {
	eh := errorHandler{d: d}
	eh.sendParam(caSet, window(x, x+w))
	eh.sendParam(raSet, window(y, y+h))
	return eh.err
}

// PushColors writes pixels to the current window.
func (d *Dev) PushColors(pixels []uint16) error {
	return d.sendColor(ramWr, pixels)
}

// SetBrightness sets the panel brightness, 0 being the dimmest.
func (d *Dev) SetBrightness(level uint8) error {
	if err := d.sendParam(wrDisBV, []byte{level}); err != nil {
		return err
	}
	d.brightness = level
	return nil
}

// Brightness returns the last level set.
func (d *Dev) Brightness() uint8 {
	return d.brightness
}

// SleepIn puts the controller in sleep mode.
func (d *Dev) SleepIn() error {
	return d.sendParam(slpIn, []byte{0x00})
}

// SleepOut wakes the controller up.
func (d *Dev) SleepOut() error {
	return d.sendParam(slpOut, []byte{0x00})
}

// Halt releases the reset line and the frame buffer.
//
// The panel content is left as is. Calling Halt again is a no-op.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	d.halted = true
	d.fb = nil
	d.next = nil
	if d.rst != nil {
		if err := d.rst.In(gpio.Float, gpio.NoEdge); err != nil {
			return fmt.Errorf("jd9613: reset pin: %w", err)
		}
	}
	return nil
}

// remapped is true when DrawBitmap transposes pixels on the host.
func (d *Dev) remapped() bool {
	return d.mode == SoftwareRotation && (d.rotation == 1 || d.rotation == 3)
}

func (d *Dev) sendParam(cmd byte, params []byte) error {
	if err := d.t.SendParam(cmd, params); err != nil {
		return &TransportError{Cmd: cmd, Err: err}
	}
	return nil
}

func (d *Dev) sendColor(cmd byte, pixels []uint16) error {
	if err := d.t.SendColor(cmd, pixels); err != nil {
		return &TransportError{Cmd: cmd, Err: err}
	}
	return nil
}

// window encodes a CASET/RASET payload for [start, end).
func window(start, end int) []byte {
	return []byte{byte(start >> 8), byte(start), byte((end - 1) >> 8), byte(end - 1)}
}

// transpose turns the w x h bitmap src by a quarter turn into dst.
func transpose(dst, src []uint16, w, h int) {
	i := 0
	for j := 0; j < w; j++ {
		for k := 0; k < h; k++ {
			dst[i] = src[w*(h-k-1)+j]
			i++
		}
	}
}

// errorHandler keeps the first error of a command sequence.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) sendParam(cmd byte, params []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendParam(cmd, params)
}

func (eh *errorHandler) delay(t time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.sleep(t)
}
