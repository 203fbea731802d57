// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touch

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPad(t *testing.T) {
	pin := &gpiotest.Pin{N: "TOUCH", EdgesChan: make(chan gpio.Level, 1)}
	p := NewPad(pin)
	if err := p.Attach(); err != nil {
		t.Fatal(err)
	}
	defer p.Halt()
	if p.Touched() {
		t.Fatal("Touched() before any edge")
	}
	pin.EdgesChan <- gpio.High
	deadline := time.Now().Add(5 * time.Second)
	for !p.touched.Load() {
		if time.Now().After(deadline) {
			t.Fatal("edge not latched")
		}
		time.Sleep(time.Millisecond)
	}
	if !p.Touched() {
		t.Fatal("Touched() = false after an edge")
	}
	if p.Touched() {
		t.Fatal("Touched() must clear the latch")
	}
	if !p.Pressed() {
		t.Fatal("Pressed() = false")
	}
}

func TestPad_ReleasedBeforePoll(t *testing.T) {
	pin := &gpiotest.Pin{N: "TOUCH", EdgesChan: make(chan gpio.Level, 1)}
	p := NewPad(pin)
	p.touched.Store(true)
	if p.Touched() {
		t.Fatal("Touched() = true with the pad released")
	}
	if p.touched.Load() {
		t.Fatal("latch not cleared")
	}
}

func TestPad_AttachError(t *testing.T) {
	// gpiotest refuses edge detection without an edge channel.
	p := NewPad(&gpiotest.Pin{N: "TOUCH"})
	if err := p.Attach(); err == nil {
		t.Fatal("expected error")
	}
	p.Detach()
}

func TestPad_Reattach(t *testing.T) {
	pin := &gpiotest.Pin{N: "TOUCH", EdgesChan: make(chan gpio.Level, 1)}
	p := NewPad(pin)
	if err := p.Attach(); err != nil {
		t.Fatal(err)
	}
	if err := p.Attach(); err != nil {
		t.Fatal(err)
	}
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
	if p.stop != nil {
		t.Fatal("watcher still running")
	}
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestButton(t *testing.T) {
	level := false
	clk := &fakeClock{t: time.Unix(1000, 0)}
	b := NewButton(func() bool { return level }, 0)
	b.now = clk.now
	var got []Event
	b.OnEvent(func(e Event) { got = append(got, e) })

	step := func(l bool, d time.Duration) {
		level = l
		for end := clk.t.Add(d); clk.t.Before(end); clk.advance(10 * time.Millisecond) {
			b.Update()
		}
	}

	// Bounce shorter than the debounce delay.
	step(true, 20*time.Millisecond)
	step(false, 100*time.Millisecond)
	if len(got) != 0 || b.IsPressed() {
		t.Fatalf("events %v on bounce", got)
	}

	// Click.
	step(true, 200*time.Millisecond)
	if !b.IsPressed() {
		t.Fatal("IsPressed() = false")
	}
	step(false, 100*time.Millisecond)

	// Long press.
	step(true, 1500*time.Millisecond)
	step(false, 100*time.Millisecond)

	want := []Event{Pressed, Released, Clicked, Pressed, LongPressed, Released}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("events difference (-got +want):\n%s", diff)
	}
}

func TestEvent_String(t *testing.T) {
	if s := LongPressed.String(); s != "LongPressed" {
		t.Fatal(s)
	}
	if s := Event(42).String(); s != "Event(?)" {
		t.Fatal(s)
	}
}
