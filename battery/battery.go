// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package battery

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

const (
	// Samples is the number of ADC readings averaged per measurement.
	Samples = 20
	// SampleInterval is the delay after each ADC reading.
	SampleInterval = 2 * time.Millisecond

	// Full is the voltage of a charged cell; readings are clamped to it.
	Full = 4200 * physic.MilliVolt
	// Empty is the voltage reported as 0%.
	Empty = 3000 * physic.MilliVolt

	divider = 2
)

// ADC is an analog input. analog.PinADC implements it.
type ADC interface {
	Read() (analog.Sample, error)
}

// Dev measures the battery through an ADC.
type Dev struct {
	adc   ADC
	sleep func(time.Duration)
}

// New returns a Dev reading the divided cell voltage from adc.
func New(adc ADC) (*Dev, error) {
	if adc == nil {
		return nil, errors.New("battery: an ADC is required")
	}
	return &Dev{adc: adc, sleep: time.Sleep}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("battery{%v}", d.adc)
}

// Voltage returns the cell voltage, averaged and clamped to Full.
//
// It blocks for Samples*SampleInterval.
func (d *Dev) Voltage() (physic.ElectricPotential, error) {
	var sum physic.ElectricPotential
	for i := 0; i < Samples; i++ {
		s, err := d.adc.Read()
		if err != nil {
			return 0, fmt.Errorf("battery: %w", err)
		}
		sum += s.V
		d.sleep(SampleInterval)
	}
	v := sum / Samples * divider
	if v > Full {
		v = Full
	}
	return v, nil
}

// MilliVolts returns Voltage in mV.
func (d *Dev) MilliVolts() (uint16, error) {
	v, err := d.Voltage()
	if err != nil {
		return 0, err
	}
	return uint16(v / physic.MilliVolt), nil
}

// Percent returns the charge estimate of a cell at mv millivolts: linear
// between 3.0V and 4.2V.
//
// It is not clamped at the low end: a cell below 3.0V returns a negative
// value.
func Percent(mv uint16) int {
	return int(((float64(mv)/1000.0 - 3.0) / (4.2 - 3.0)) * 100)
}
