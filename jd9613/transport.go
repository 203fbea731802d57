// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Transport sends commands to the panel controller.
//
// SendParam writes a command byte followed by its parameters; params may be
// empty. SendColor writes a command byte followed by RGB565 pixels.
type Transport interface {
	SendParam(cmd byte, params []byte) error
	SendColor(cmd byte, pixels []uint16) error
}

// maxTransfer is the DMA transfer size used by the board: 80 full lines.
const maxTransfer = Height * 80 * 2

// SPIOpts configures the SPI transport.
type SPIOpts struct {
	// Frequency is the SPI clock. 0 means 70MHz.
	Frequency physic.Frequency
	// MaxTxSize bounds each pixel transfer in bytes. 0 uses the connection
	// limit, or 80 lines of the panel when the connection has none.
	MaxTxSize int
}

// DefaultSPIOpts is the board wiring: 70MHz, mode 0.
var DefaultSPIOpts = SPIOpts{
	Frequency: 70 * physic.MegaHertz,
}

// SPI is a Transport over a 4-wire SPI port: the DC pin is low while the
// command byte is clocked out and high for parameters and pixels.
type SPI struct {
	c   conn.Conn
	dc  gpio.PinOut
	max int
	buf []byte
}

// NewSPI connects to the panel controller over SPI.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *SPIOpts) (*SPI, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("jd9613: a dc pin is required")
	}
	if opts == nil {
		opts = &DefaultSPIOpts
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultSPIOpts.Frequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("jd9613: %w", err)
	}
	max := opts.MaxTxSize
	if l, ok := c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 && (max == 0 || m < max) {
			max = m
		}
	}
	if max <= 0 {
		max = maxTransfer
	}
	// Pixels are 2 bytes; never split one across transfers.
	max &^= 1
	if max == 0 {
		return nil, fmt.Errorf("jd9613: transfer size %d is too small", opts.MaxTxSize)
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("jd9613: %w", err)
	}
	return &SPI{c: c, dc: dc, max: max}, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("jd9613.SPI{%s, %s}", s.c, s.dc)
}

// SendParam implements Transport.
func (s *SPI) SendParam(cmd byte, params []byte) error {
	if err := s.command(cmd); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	return s.c.Tx(params, nil)
}

// SendColor implements Transport.
//
// Pixels are sent most significant byte first.
func (s *SPI) SendColor(cmd byte, pixels []uint16) error {
	if err := s.command(cmd); err != nil {
		return err
	}
	if len(pixels) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(pixels) != 0 {
		n := len(pixels)
		if n*2 > s.max {
			n = s.max / 2
		}
		if cap(s.buf) < n*2 {
			s.buf = make([]byte, n*2)
		}
		b := s.buf[:n*2]
		for i, p := range pixels[:n] {
			b[2*i] = byte(p >> 8)
			b[2*i+1] = byte(p)
		}
		if err := s.c.Tx(b, nil); err != nil {
			return err
		}
		pixels = pixels[n:]
	}
	return nil
}

func (s *SPI) command(cmd byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	return s.c.Tx([]byte{cmd}, nil)
}

var _ Transport = &SPI{}
var _ fmt.Stringer = &SPI{}
