// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package battery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type fakeADC struct {
	v     []physic.ElectricPotential
	reads int
	err   error
}

func (f *fakeADC) Read() (analog.Sample, error) {
	if f.err != nil {
		return analog.Sample{}, f.err
	}
	v := f.v[f.reads%len(f.v)]
	f.reads++
	return analog.Sample{V: v}, nil
}

func newDev(t *testing.T, adc ADC) (*Dev, *[]time.Duration) {
	t.Helper()
	d, err := New(adc)
	if err != nil {
		t.Fatal(err)
	}
	var sleeps []time.Duration
	d.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return d, &sleeps
}

func TestVoltage(t *testing.T) {
	for _, tc := range []struct {
		name    string
		samples []physic.ElectricPotential
		want    uint16
	}{
		{"steady", []physic.ElectricPotential{1900 * physic.MilliVolt}, 3800},
		{"averaged", []physic.ElectricPotential{1800 * physic.MilliVolt, 2000 * physic.MilliVolt}, 3800},
		{"clamped", []physic.ElectricPotential{2500 * physic.MilliVolt}, 4200},
	} {
		t.Run(tc.name, func(t *testing.T) {
			adc := &fakeADC{v: tc.samples}
			d, sleeps := newDev(t, adc)
			got, err := d.MilliVolts()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("MilliVolts() = %d, want %d", got, tc.want)
			}
			if adc.reads != Samples || len(*sleeps) != Samples || (*sleeps)[0] != SampleInterval {
				t.Fatalf("%d reads, sleeps %v", adc.reads, *sleeps)
			}
		})
	}
}

func TestVoltage_Error(t *testing.T) {
	bad := errors.New("adc")
	d, _ := newDev(t, &fakeADC{err: bad})
	if _, err := d.Voltage(); !errors.Is(err, bad) {
		t.Fatalf("Voltage() = %v", err)
	}
}

func TestNew_NoADC(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestPercent(t *testing.T) {
	for _, tc := range []struct {
		mv   uint16
		want int
	}{
		{4200, 100},
		{3600, 50},
		{3000, 0},
		{3720, 60},
		{2880, -10},
	} {
		if got := Percent(tc.mv); got != tc.want {
			t.Errorf("Percent(%d) = %d, want %d", tc.mv, got, tc.want)
		}
	}
}

func TestIIO(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "in_voltage3_raw"), []byte("2048\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	adc := NewIIOAt(dir, 3)
	s, err := adc.Read()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 2048 || s.V != 2048*physic.MilliVolt {
		t.Fatalf("Read() = %+v without scale", s)
	}
	if err := os.WriteFile(filepath.Join(dir, "in_voltage3_scale"), []byte("0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if s, err = adc.Read(); err != nil {
		t.Fatal(err)
	}
	if s.V != 1024*physic.MilliVolt {
		t.Fatalf("Read() = %+v with scale", s)
	}
	if _, err := NewIIOAt(dir, 4).Read(); err == nil {
		t.Fatal("expected error for a missing channel")
	}
}
