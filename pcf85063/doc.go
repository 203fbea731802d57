// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcf85063 controls a NXP PCF85063 real time clock over I²C.
//
// The clock keeps time in BCD registers and raises its interrupt line when
// the alarm matches. Time is kept in UTC; years are 2000 to 2099.
//
// # Datasheet
//
// https://www.nxp.com/docs/en/data-sheet/PCF85063A.pdf
package pcf85063
