// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package touch

import (
	"time"
)

// Event is a button state change.
type Event int

// Events
const (
	Pressed Event = iota
	Released
	Clicked
	LongPressed
)

func (e Event) String() string {
	switch e {
	case Pressed:
		return "Pressed"
	case Released:
		return "Released"
	case Clicked:
		return "Clicked"
	case LongPressed:
		return "LongPressed"
	default:
		return "Event(?)"
	}
}

// DefaultDebounce is the debounce delay of the board button.
const DefaultDebounce = 50 * time.Millisecond

// LongPress is how long the button must be held for LongPressed.
const LongPress = time.Second

// Button debounces a level read by a function and reports events from
// Update.
type Button struct {
	read     func() bool
	debounce time.Duration
	handler  func(Event)
	now      func() time.Time

	raw      bool
	rawSince time.Time
	pressed  bool
	since    time.Time
	long     bool
}

// NewButton returns a Button reading its level from read. A debounce of 0
// means DefaultDebounce.
func NewButton(read func() bool, debounce time.Duration) *Button {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Button{read: read, debounce: debounce, now: time.Now}
}

// OnEvent sets the function called by Update for each event.
func (b *Button) OnEvent(f func(Event)) {
	b.handler = f
}

// IsPressed returns the debounced state.
func (b *Button) IsPressed() bool {
	return b.pressed
}

// Update samples the level. It must be called periodically, at least as often
// as the debounce delay.
func (b *Button) Update() {
	now := b.now()
	raw := b.read()
	if raw != b.raw {
		b.raw = raw
		b.rawSince = now
		return
	}
	if raw != b.pressed && now.Sub(b.rawSince) >= b.debounce {
		b.pressed = raw
		held := now.Sub(b.since)
		b.since = now
		if raw {
			b.long = false
			b.emit(Pressed)
			return
		}
		b.emit(Released)
		if !b.long && held < LongPress {
			b.emit(Clicked)
		}
		return
	}
	if b.pressed && !b.long && now.Sub(b.since) >= LongPress {
		b.long = true
		b.emit(LongPressed)
	}
}

func (b *Button) emit(e Event) {
	if b.handler != nil {
		b.handler(e)
	}
}
