// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package battery

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// IIO is an ADC channel exposed by the Linux Industrial I/O subsystem.
type IIO struct {
	raw   string
	scale string
}

// NewIIO returns the voltage channel of an IIO device, as found in
// /sys/bus/iio/devices/iio:device<device>/in_voltage<channel>_raw.
func NewIIO(device, channel int) *IIO {
	return NewIIOAt(filepath.Join("/sys/bus/iio/devices", fmt.Sprintf("iio:device%d", device)), channel)
}

// NewIIOAt is NewIIO with an explicit device directory.
func NewIIOAt(dir string, channel int) *IIO {
	return &IIO{
		raw:   filepath.Join(dir, fmt.Sprintf("in_voltage%d_raw", channel)),
		scale: filepath.Join(dir, fmt.Sprintf("in_voltage%d_scale", channel)),
	}
}

func (i *IIO) String() string {
	return i.raw
}

// Read implements ADC.
//
// The scale, in mV per count, is read on each call; a missing scale file
// means 1.
func (i *IIO) Read() (analog.Sample, error) {
	raw, err := readNumber(i.raw)
	if err != nil {
		return analog.Sample{}, err
	}
	scale := 1.0
	if _, err := os.Stat(i.scale); err == nil {
		if scale, err = readNumber(i.scale); err != nil {
			return analog.Sample{}, err
		}
	}
	return analog.Sample{
		V:   physic.ElectricPotential(raw * scale * float64(physic.MilliVolt)),
		Raw: int32(raw),
	}, nil
}

func readNumber(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("battery: %w", err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("battery: %s: %w", path, err)
	}
	return v, nil
}

var _ ADC = &IIO{}
