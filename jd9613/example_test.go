// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613_test

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/GermanBionicSystems/wristband/jd9613"
	"github.com/GermanBionicSystems/wristband/jd9613/rgb565"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	t, err := jd9613.NewSPI(p, gpioreg.ByName("GPIO21"), &jd9613.DefaultSPIOpts)
	if err != nil {
		log.Fatal(err)
	}
	opts := jd9613.DefaultOpts
	opts.Reset = gpioreg.ByName("GPIO18")
	dev, err := jd9613.New(t, &opts)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	if err := dev.Reset(); err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	img := rgb565.NewImage(dev.Bounds())
	draw.Draw(img, img.Rect, &image.Uniform{color.RGBA{R: 0xFF, A: 0xFF}}, image.Point{}, draw.Src)
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		log.Fatal(err)
	}
}

func ExampleCanvas() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	t, err := jd9613.NewSPI(p, gpioreg.ByName("GPIO21"), nil)
	if err != nil {
		log.Fatal(err)
	}
	dev, err := jd9613.New(t, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	c := jd9613.NewCanvas(dev)
	w, h := c.Size()
	for x := int16(0); x < w; x++ {
		c.SetPixel(x, h/2, color.RGBA{G: 0xFF, A: 0xFF})
	}
	if err := c.Display(); err != nil {
		log.Fatal(err)
	}
}
