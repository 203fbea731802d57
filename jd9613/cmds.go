// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613

// Commands
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
	colMod  byte = 0x3A
	wrDisBV byte = 0x51
	pageSel byte = 0xFE
)

// Memory data access control (MADCTL) bits.
const (
	madctlMY   byte = 0x80 // row address order
	madctlMX   byte = 0x40 // column address order
	madctlMV   byte = 0x20 // row/column exchange
	madctlRGB  byte = 0x00
	madctlFlip byte = 0x02 // horizontal flip
)

// cmdEnd marks the last entry of a command table.
const cmdEnd = 0xFF

// InitCommand is one register write of the controller power-on sequence.
//
// Len counts the register address plus its parameters, so an entry with a
// single parameter byte has Len 2. A Len of 0xFF terminates the table.
type InitCommand struct {
	Addr   byte
	Params [20]byte
	Len    byte
}

// params returns the parameter bytes sent for c. The count is bounded to 5
// bits like the controller's parameter FIFO.
func (c *InitCommand) params() []byte {
	n := int((c.Len - 1) & 0x1F)
	if n > len(c.Params) {
		n = len(c.Params)
	}
	return c.Params[:n]
}

// initSequence is the vendor power-on sequence for the 1.1" 126x294 AMOLED
// module. Page 0x01 holds the panel timing and GOA settings, page 0x02 the
// source driver, page 0x03 the gamma tables.
//
// TODO: this table has 60 entries while the vendor sequence declares 88.
// Check every page against the vendor init code before trusting it on new
// panel revisions.
var initSequence = []InitCommand{
	{0xFE, [20]byte{0x01}, 0x02},
	{0xF7, [20]byte{0x96, 0x13, 0xA9}, 0x04},
	{0x90, [20]byte{0x01}, 0x02},
	{0x2C, [20]byte{0x19, 0x0B, 0x24, 0x1B, 0x1B, 0x1B, 0xAA, 0x50, 0x01, 0x16, 0x04, 0x04, 0x04, 0xD7}, 0x0F},
	{0x2D, [20]byte{0x66, 0x56, 0x55}, 0x04},
	{0x2E, [20]byte{0x24, 0x04, 0x3F, 0x30, 0x30, 0xA8, 0xB8, 0xB8, 0x07}, 0x0A},
	{0x33, [20]byte{0x03, 0x03, 0x03, 0x19, 0x19, 0x19, 0x13, 0x13, 0x13, 0x1A, 0x1A, 0x1A}, 0x0D},
	{0x10, [20]byte{0x0B, 0x08, 0x64, 0xAE, 0x0B, 0x08, 0x64, 0xAE, 0x00, 0x80, 0x00, 0x00, 0x01}, 0x0E},
	{0x11, [20]byte{0x01, 0x1E, 0x01, 0x1E, 0x00}, 0x06},
	{0x03, [20]byte{0x93, 0x1C, 0x00, 0x01, 0x7E}, 0x06},
	{0x19, [20]byte{0x00}, 0x02},
	{0x31, [20]byte{0x1B, 0x00, 0x06, 0x05, 0x05, 0x05}, 0x07},
	{0x35, [20]byte{0x00, 0x80, 0x80, 0x00}, 0x05},
	{0x12, [20]byte{0x1B}, 0x02},
	{0x1A, [20]byte{0x01, 0x20, 0x00, 0x08, 0x01, 0x06, 0x06, 0x06}, 0x09},
	{0x74, [20]byte{0xBD, 0x00, 0x01, 0x08, 0x01, 0xBB, 0x98}, 0x08},
	{0x6C, [20]byte{0xDC, 0x08, 0x02, 0x01, 0x08, 0x01, 0x30, 0x08, 0x00}, 0x0A},
	{0x6D, [20]byte{0xDC, 0x08, 0x02, 0x01, 0x08, 0x02, 0x30, 0x08, 0x00}, 0x0A},
	{0x76, [20]byte{0xDA, 0x00, 0x02, 0x20, 0x39, 0x80, 0x80, 0x50, 0x05}, 0x0A},
	{0x6E, [20]byte{0xDC, 0x00, 0x02, 0x01, 0x00, 0x02, 0x4F, 0x02, 0x00}, 0x0A},
	{0x6F, [20]byte{0xDC, 0x00, 0x02, 0x01, 0x00, 0x01, 0x4F, 0x02, 0x00}, 0x0A},
	{0x80, [20]byte{0xBD, 0x00, 0x01, 0x08, 0x01, 0xBB, 0x98}, 0x08},
	{0x78, [20]byte{0xDC, 0x08, 0x02, 0x01, 0x08, 0x01, 0x30, 0x08, 0x00}, 0x0A},
	{0x79, [20]byte{0xDC, 0x08, 0x02, 0x01, 0x08, 0x02, 0x30, 0x08, 0x00}, 0x0A},
	{0x82, [20]byte{0xDA, 0x40, 0x02, 0x20, 0x39, 0x00, 0x80, 0x50, 0x05}, 0x0A},
	{0x7A, [20]byte{0xDC, 0x00, 0x02, 0x01, 0x00, 0x02, 0x4F, 0x02, 0x00}, 0x0A},
	{0x7B, [20]byte{0xDC, 0x00, 0x02, 0x01, 0x00, 0x01, 0x4F, 0x02, 0x00}, 0x0A},
	{0x84, [20]byte{0x01, 0x00, 0x09, 0x19, 0x19, 0x19, 0x19, 0x19, 0x19, 0x19, 0x19}, 0x0C},
	{0x85, [20]byte{0x19, 0x19, 0x19, 0x03, 0x02, 0x08, 0x19, 0x19, 0x19, 0x19, 0x19}, 0x0C},
	{0x20, [20]byte{0x20, 0x00, 0x08, 0x00, 0x02, 0x00, 0x40, 0x00, 0x10, 0x00, 0x04, 0x00}, 0x0D},
	{0x1E, [20]byte{0x40, 0x00, 0x10, 0x00, 0x04, 0x00, 0x20, 0x00, 0x08, 0x00, 0x02, 0x00}, 0x0D},
	{0x24, [20]byte{0x20, 0x00, 0x08, 0x00, 0x02, 0x00, 0x40, 0x00, 0x10, 0x00, 0x04, 0x00}, 0x0D},
	{0x22, [20]byte{0x40, 0x00, 0x10, 0x00, 0x04, 0x00, 0x20, 0x00, 0x08, 0x00, 0x02, 0x00}, 0x0D},
	{0x13, [20]byte{0x63, 0x52, 0x41}, 0x04},
	{0x14, [20]byte{0x36, 0x25, 0x14}, 0x04},
	{0x15, [20]byte{0x63, 0x52, 0x41}, 0x04},
	{0x16, [20]byte{0x36, 0x25, 0x14}, 0x04},
	{0x1D, [20]byte{0x10, 0x00, 0x00}, 0x04},
	{0x2A, [20]byte{0x0D, 0x07}, 0x03},
	{0x27, [20]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}, 0x07},
	{0x28, [20]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}, 0x07},
	{0x26, [20]byte{0x01, 0x01}, 0x03},
	{0x86, [20]byte{0x01, 0x01}, 0x03},
	{0xFE, [20]byte{0x02}, 0x02},
	{0x16, [20]byte{0x81, 0x43, 0x23, 0x1E, 0x03}, 0x06},
	{0xFE, [20]byte{0x03}, 0x02},
	{0x60, [20]byte{0x01}, 0x02},
	{0x61, [20]byte{0x00, 0x00, 0x00, 0x00, 0x11, 0x00, 0x0D, 0x26, 0x5A, 0x80, 0x80, 0x95, 0xF8, 0x3B, 0x75}, 0x10},
	{0x62, [20]byte{0x21, 0x22, 0x32, 0x43, 0x44, 0xD7, 0x0A, 0x59, 0xA1, 0xE1, 0x52, 0xB7, 0x11, 0x64, 0xB1}, 0x10},
	{0x63, [20]byte{0x54, 0x55, 0x66, 0x06, 0xFB, 0x3F, 0x81, 0xC6, 0x06, 0x45, 0x83}, 0x0C},
	{0x64, [20]byte{0x00, 0x00, 0x11, 0x11, 0x21, 0x00, 0x23, 0x6A, 0xF8, 0x63, 0x67, 0x70, 0xA5, 0xDC, 0x02}, 0x10},
	{0x65, [20]byte{0x22, 0x22, 0x32, 0x43, 0x44, 0x24, 0x44, 0x82, 0xC1, 0xF8, 0x61, 0xBF, 0x13, 0x62, 0xAD}, 0x10},
	{0x66, [20]byte{0x54, 0x55, 0x65, 0x06, 0xF4, 0x37, 0x76, 0xB8, 0xF5, 0x31, 0x6C}, 0x0C},
	{0x67, [20]byte{0x00, 0x10, 0x22, 0x22, 0x22, 0x00, 0x37, 0xA4, 0x7E, 0x22, 0x25, 0x2C, 0x4C, 0x72, 0x9A}, 0x10},
	{0x68, [20]byte{0xCC, 0xDD, 0xDD, 0xDD, 0xDD, 0x76, 0xC2, 0xEF, 0x1D, 0x6F, 0xD7, 0x25, 0x0A, 0x45, 0x8B}, 0x10},
	{0x69, [20]byte{0x65, 0x67, 0x77, 0x07, 0x01, 0x33, 0xA1, 0x32, 0x1E, 0x42, 0x9E}, 0x0C},
	{0xFE, [20]byte{0x00}, 0x02},
	{colMod, [20]byte{0x55}, 0x02}, // 16 bits per pixel
	{0x35, [20]byte{0x00}, 0x02},   // tearing effect line on
	{0x00, [20]byte{}, cmdEnd},
}
