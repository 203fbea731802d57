// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package battery measures the single cell LiPo battery of the wristband.
//
// The cell is wired to an ADC input through a divide by 2 resistor bridge.
// Readings are averaged over 20 samples to filter the noise of the charger.
package battery
