// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package touch handles the capacitive touch button of the wristband.
//
// Pad latches touch edges from a GPIO in the background so the control loop
// can poll them. Button turns a level into debounced press, release, click
// and long press events.
package touch
