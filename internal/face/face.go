// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package face renders the wristband watchface.
package face

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Renderer draws the time and battery level into images of a fixed size.
type Renderer struct {
	w, h  int
	large font.Face
	small font.Face
}

// New returns a Renderer producing w×h images.
//
// Font sizes scale with the shorter edge so that the face fits both the
// portrait and landscape panel orientations.
func New(w, h int) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("face: invalid size %dx%d", w, h)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("face: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("face: %w", err)
	}
	edge := float64(w)
	if h < w {
		edge = float64(h)
	}
	return &Renderer{
		w:     w,
		h:     h,
		large: truetype.NewFace(bold, &truetype.Options{Size: edge / 3}),
		small: truetype.NewFace(regular, &truetype.Options{Size: edge / 8}),
	}, nil
}

// Bounds returns the size of the rendered images.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.w, r.h)
}

// Render draws hour and minute, the date and a battery gauge.
//
// A negative percent hides the gauge.
func (r *Renderer) Render(now time.Time, percent int) image.Image {
	dc := gg.NewContext(r.w, r.h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	w, h := float64(r.w), float64(r.h)
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(r.large)
	dc.DrawStringAnchored(now.Format("15:04"), w/2, h*0.45, 0.5, 0.5)

	dc.SetFontFace(r.small)
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.DrawStringAnchored(now.Format("Mon 02 Jan"), w/2, h*0.7, 0.5, 0.5)

	if percent >= 0 {
		if percent > 100 {
			percent = 100
		}
		pad := h * 0.05
		bw, bh := w*0.5, h*0.06
		x, y := (w-bw)/2, h-pad-bh
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, bw, bh)
		dc.Stroke()
		switch {
		case percent <= 15:
			dc.SetRGB(1, 0.2, 0.2)
		default:
			dc.SetRGB(0.2, 0.9, 0.4)
		}
		dc.DrawRectangle(x+1, y+1, (bw-2)*float64(percent)/100, bh-2)
		dc.Fill()
	}
	return dc.Image()
}
