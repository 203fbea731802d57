// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jd9613

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func diffIO(t *testing.T, got, want []conntest.IO) {
	t.Helper()
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Tx difference (-got +want):\n%s", diff)
	}
}

func TestNewSPI_NoDC(t *testing.T) {
	if _, err := NewSPI(&spitest.Record{}, nil, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := NewSPI(&spitest.Record{}, gpio.INVALID, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestSPI_SendParam(t *testing.T) {
	r := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC", L: gpio.High}
	s, err := NewSPI(r, dc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dc.Read() != gpio.Low {
		t.Fatal("dc must idle low")
	}
	if err := s.SendParam(slpOut, nil); err != nil {
		t.Fatal(err)
	}
	if dc.Read() != gpio.Low {
		t.Fatal("dc must be low after a command without parameters")
	}
	if err := s.SendParam(caSet, []byte{0, 1, 0, 2}); err != nil {
		t.Fatal(err)
	}
	if dc.Read() != gpio.High {
		t.Fatal("dc must be high after parameters")
	}
	diffIO(t, r.Ops, []conntest.IO{
		{W: []byte{slpOut}},
		{W: []byte{caSet}},
		{W: []byte{0, 1, 0, 2}},
	})
}

func TestSPI_SendColor(t *testing.T) {
	r := &spitest.Record{}
	s, err := NewSPI(r, &gpiotest.Pin{N: "DC"}, &SPIOpts{MaxTxSize: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SendColor(ramWr, []uint16{0x0102, 0x0304, 0x0506}); err != nil {
		t.Fatal(err)
	}
	diffIO(t, r.Ops, []conntest.IO{
		{W: []byte{ramWr}},
		{W: []byte{0x01, 0x02, 0x03, 0x04}},
		{W: []byte{0x05, 0x06}},
	})
}

func TestSPI_SendColor_DefaultChunk(t *testing.T) {
	r := &spitest.Record{}
	s, err := NewSPI(r, &gpiotest.Pin{N: "DC"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SendColor(ramWr, make([]uint16, Width*Height)); err != nil {
		t.Fatal(err)
	}
	// Command, then the frame in transfers of at most 80 lines.
	total := 0
	for i, io := range r.Ops[1:] {
		if len(io.W) > maxTransfer {
			t.Fatalf("transfer %d is %d bytes", i, len(io.W))
		}
		total += len(io.W)
	}
	if total != Width*Height*2 {
		t.Fatalf("sent %d bytes", total)
	}
}

func TestSPI_Playback(t *testing.T) {
	p := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{wrDisBV}},
				{W: []byte{0x80}},
			},
			DontPanic: true,
		},
	}
	s, err := NewSPI(p, &gpiotest.Pin{N: "DC"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetBrightness(0x80); err != nil {
		t.Fatal(err)
	}
	// The playback is exhausted.
	if err := d.SetBrightness(0x81); err == nil {
		t.Fatal("expected error")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
