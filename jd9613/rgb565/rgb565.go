// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements the 16 bits per pixel color format of AMOLED
// controllers: 5 bits red, 6 bits green, 5 bits blue, red in the most
// significant bits.
package rgb565

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a RGB565 value.
type Color uint16

// New packs 8 bit channels into a Color. The low bits are dropped.
func New(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color.
//
// Each channel is widened by replicating its high bits, so 0x1F red is 0xFFFF.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

// RGB returns the 8 bit channels of c.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func toColor(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return New(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color. Alpha is ignored.
var Model = color.ModelFunc(toColor)

// Image is an in-memory image of RGB565 pixels in row-major order.
type Image struct {
	Pix    []uint16
	Stride int // Pixels per row
	Rect   image.Rectangle
}

// NewImage returns an Image of the given bounds, all black.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{Pix: make([]uint16, w*h), Stride: w, Rect: r}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y), black when outside the bounds.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return 0
	}
	return Color(i.Pix[i.PixOffset(x, y)])
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	i.Pix[i.PixOffset(x, y)] = uint16(c)
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x - i.Rect.Min.X)
}

// Opaque is always true.
func (i *Image) Opaque() bool {
	return true
}

// Fill sets every pixel to c.
func (i *Image) Fill(c Color) {
	for y := i.Rect.Min.Y; y < i.Rect.Max.Y; y++ {
		row := i.Pix[i.PixOffset(i.Rect.Min.X, y):][:i.Rect.Dx()]
		for x := range row {
			row[x] = uint16(c)
		}
	}
}

var _ draw.Image = &Image{}
