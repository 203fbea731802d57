// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bhi260ap controls a Bosch BHI260AP smart sensor hub over SPI.
//
// Only the host interface is handled: reset, identification, boot status and
// the interrupt status register. Loading the fusion firmware and decoding the
// FIFOs is left to the caller.
//
// # Datasheet
//
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bhi260ap-ds000.pdf
package bhi260ap
