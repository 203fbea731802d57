// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf85063

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr = DefaultAddress

func playback(ops ...i2ctest.IO) *i2ctest.Playback {
	return &i2ctest.Playback{Ops: ops, DontPanic: true}
}

func TestInit(t *testing.T) {
	for _, tc := range []struct {
		name string
		ops  []i2ctest.IO
	}{
		{
			name: "running",
			ops:  []i2ctest.IO{{Addr: addr, W: []byte{regControl1}, R: []byte{0x00}}},
		},
		{
			name: "stopped",
			ops: []i2ctest.IO{
				{Addr: addr, W: []byte{regControl1}, R: []byte{0x21}},
				{Addr: addr, W: []byte{regControl1, 0x01}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pb := playback(tc.ops...)
			d := New(pb, nil)
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			if err := pb.Close(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestInit_NotFound(t *testing.T) {
	d := New(playback(), nil)
	if err := d.Init(); err == nil {
		t.Fatal("expected error")
	}
}

func TestNow(t *testing.T) {
	pb := playback(i2ctest.IO{Addr: addr, W: []byte{regSeconds}, R: []byte{0x59, 0x34, 0x23, 0x31, 0x04, 0x12, 0x26}})
	d := New(pb, &Opts{})
	got, err := d.Now()
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, time.December, 31, 23, 34, 59, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestNow_Integrity(t *testing.T) {
	pb := playback(i2ctest.IO{Addr: addr, W: []byte{regSeconds}, R: []byte{0x80, 0, 0, 1, 0, 1, 0}})
	if _, err := New(pb, nil).Now(); !errors.Is(err, ErrClockIntegrity) {
		t.Fatalf("Now() = %v", err)
	}
}

func TestSetTime(t *testing.T) {
	pb := playback(i2ctest.IO{Addr: addr, W: []byte{regSeconds, 0x05, 0x30, 0x14, 0x15, 0x04, 0x10, 0x26}})
	d := New(pb, nil)
	if err := d.SetTime(time.Date(2026, time.October, 15, 14, 30, 5, 999, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetTime(time.Date(1999, time.October, 15, 14, 30, 5, 0, time.UTC)); err == nil {
		t.Fatal("expected error")
	}
}

func TestAlarm(t *testing.T) {
	pb := playback(
		i2ctest.IO{Addr: addr, W: []byte{regSecondAlarm, 0x00, 0x45, 0x07, 0x80, 0x80}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2}, R: []byte{0x01}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2, 0x81}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2}, R: []byte{0xC1}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2}, R: []byte{0xC1}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2, 0x81}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2}, R: []byte{0x81}},
		i2ctest.IO{Addr: addr, W: []byte{regControl2, 0x01}},
	)
	d := New(pb, nil)
	if err := d.SetAlarm(7, 45, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.EnableAlarm(true); err != nil {
		t.Fatal(err)
	}
	fired, err := d.AlarmFired()
	if err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Fatal("AlarmFired() = false")
	}
	if err := d.ClearAlarm(); err != nil {
		t.Fatal(err)
	}
	if err := d.EnableAlarm(false); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetAlarm(24, 0, 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestBCD(t *testing.T) {
	for v := 0; v < 100; v++ {
		if got := fromBCD(toBCD(v)); got != v {
			t.Fatalf("fromBCD(toBCD(%d)) = %d", v, got)
		}
	}
	if toBCD(59) != 0x59 {
		t.Fatalf("toBCD(59) = %#x", toBCD(59))
	}
}
