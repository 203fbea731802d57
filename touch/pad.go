// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touch

import (
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// poll bounds how long the watcher blocks in WaitForEdge so Detach returns
// promptly.
const poll = 100 * time.Millisecond

// Pad is a touch pad wired to an edge capable GPIO. The pad reads high while
// touched.
type Pad struct {
	pin     gpio.PinIn
	touched atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// NewPad returns a Pad on pin. Call Attach to start latching touches.
func NewPad(pin gpio.PinIn) *Pad {
	return &Pad{pin: pin}
}

func (p *Pad) String() string {
	return fmt.Sprintf("touch.Pad{%s}", p.pin)
}

// Attach configures the pin for rising edges and starts watching it.
func (p *Pad) Attach() error {
	p.Detach()
	if err := p.pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return fmt.Errorf("touch: %w", err)
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.watch(p.stop, p.done)
	return nil
}

// Detach stops watching the pin. Touches already latched are kept.
func (p *Pad) Detach() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop, p.done = nil, nil
	_ = p.pin.In(gpio.PullDown, gpio.NoEdge)
}

// Touched reports whether the pad was touched since the last call and is
// still touched.
//
// The latch is cleared even when the pad was released in between, so a
// single touch is reported at most once.
func (p *Pad) Touched() bool {
	if !p.touched.CompareAndSwap(true, false) {
		return false
	}
	return p.Pressed()
}

// Pressed returns the current level of the pad.
func (p *Pad) Pressed() bool {
	return p.pin.Read() == gpio.High
}

// Halt implements conn.Resource.
func (p *Pad) Halt() error {
	p.Detach()
	return nil
}

func (p *Pad) watch(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		if p.pin.WaitForEdge(poll) {
			p.touched.Store(true)
		}
	}
}
