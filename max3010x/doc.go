// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package max3010x reads a Maxim MAX30102/MAX30105 pulse oximetry and heart
// rate sensor over I²C.
//
// The device is optional on the board: when Init fails the handle stays
// offline and its readings are zero, so callers do not need to track the
// sensor presence themselves.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX30105.pdf
package max3010x
