// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jd9613 controls the 126x294 AMOLED panel of the T-Wristband S3 via
// its JD9613 controller.
//
// The controller is driven over SPI with 4 wires: a DC line selects between
// the command byte and its parameters. Pixels are RGB565, sent most
// significant byte first.
//
// Rotation can be handled two ways. HardwareRotation programs the scan order
// of the controller and swaps the panel geometry for rotation 1 and 3.
// SoftwareRotation, the default, keeps the native scan order and transposes
// the pixels on the host before sending them; this is what the board
// firmware does.
//
// Some boards expose a reset line. If absent, the controller is reset with a
// software command.
//
// # Quirk
//
// DrawBitmap interprets its end coordinates relative to the start: the window
// spans xStart+xEnd columns and yStart+yEnd rows. Drawing from the origin is
// unaffected.
//
// # Datasheets
//
// No public datasheet exists. The command set is the MIPI DCS subset:
// CASET 0x2A, RASET 0x2B, RAMWR 0x2C, MADCTL 0x36, WRDISBV 0x51.
package jd9613
