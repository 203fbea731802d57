// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wristband drives the parts of the AMOLED wristband board.
//
// The board carries a 126x294 JD9613 AMOLED panel, a capacitive touch button,
// a vibration motor, a PCF85063 real time clock, a BHI260AP motion sensor, a
// PDM microphone and a battery sense divider. The factory variant adds a
// MAX3010x pulse oximeter.
//
// Dev composes the device drivers found in the sub-packages. Parts are passed
// in Opts already opened on their bus, so the same code runs against real
// hardware, against the amoledsim terminal simulator or against test fakes.
//
// Begin only fails when the panel cannot be brought up. A peripheral that
// does not answer is logged and reported as offline by its accessor:
//
//	if rtc := w.RTC(); rtc != nil {
//	    now, err := rtc.Now()
//	    ...
//	}
//
// Datasheets
//
// JD9613: available from the panel vendor under NDA.
//
// https://www.nxp.com/docs/en/data-sheet/PCF85063A.pdf
//
// https://www.bosch-sensortec.com/products/smart-sensor-systems/bhi260ap/
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX30102.pdf
package wristband
