// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/wristband/jd9613/rgb565"
	"periph.io/x/conn/v3/display"
	"tinygo.org/x/drivers"
)

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer.
//
// It is the geometry seen by the caller: with software rotation 1 and 3 it
// is the transposed panel geometry.
func (d *Dev) Bounds() image.Rectangle {
	if d.remapped() {
		return image.Rect(0, 0, d.height, d.width)
	}
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer.
//
// The whole frame is sent on every call; r outside of the bounds is ignored.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	b := d.Bounds()
	if b.Empty() {
		return errors.New("jd9613: Init must be called before Draw")
	}
	if img, ok := src.(*rgb565.Image); ok && r == b && img.Rect == b && img.Stride == b.Dx() && sp == (image.Point{}) {
		return d.DrawBitmap(0, 0, b.Dx(), b.Dy(), img.Pix)
	}
	if d.next == nil || d.next.Rect != b {
		d.next = rgb565.NewImage(b)
	}
	draw.Src.Draw(d.next, r.Intersect(b), src, sp)
	return d.DrawBitmap(0, 0, b.Dx(), b.Dy(), d.next.Pix)
}

// Canvas is a frame buffer for TinyGo graphics code. Pixels are set in memory
// and sent to the panel by Display.
type Canvas struct {
	d   *Dev
	img *rgb565.Image
}

// NewCanvas returns a Canvas drawing on d.
func NewCanvas(d *Dev) *Canvas {
	return &Canvas{d: d}
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	b := c.d.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.buffer().SetRGB565(int(x), int(y), rgb565.New(col.R, col.G, col.B))
}

// Display implements drivers.Displayer.
func (c *Canvas) Display() error {
	img := c.buffer()
	if img.Rect.Empty() {
		return errors.New("jd9613: Init must be called before Display")
	}
	return c.d.DrawBitmap(0, 0, img.Rect.Dx(), img.Rect.Dy(), img.Pix)
}

// Image returns the in-memory frame.
func (c *Canvas) Image() *rgb565.Image {
	return c.buffer()
}

// buffer returns the frame, reallocated when the rotation changed the
// geometry.
func (c *Canvas) buffer() *rgb565.Image {
	if b := c.d.Bounds(); c.img == nil || c.img.Rect != b {
		c.img = rgb565.NewImage(b)
	}
	return c.img
}

var _ display.Drawer = &Dev{}
var _ drivers.Displayer = &Canvas{}
