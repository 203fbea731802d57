// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/GermanBionicSystems/wristband"
	"github.com/GermanBionicSystems/wristband/internal/log"
)

const (
	powerState  = "/sys/power/state"
	touchWakeup = "/sys/class/gpio/power/wakeup"
)

// hostPower suspends a Linux host to RAM through sysfs.
type hostPower struct {
	state  string
	wakeup string
}

// EnableTouchWakeup enables the wakeup source of the touch line. The
// threshold applies to capacitive sensing controllers only and is logged.
func (h *hostPower) EnableTouchWakeup(threshold int) error {
	log.Debug("touch wakeup", "threshold", threshold, "path", h.wakeup)
	if err := writeSysfs(h.wakeup, "enabled"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeepSleep blocks until the host resumed from suspend to RAM.
func (h *hostPower) DeepSleep() error {
	return writeSysfs(h.state, "mem")
}

func writeSysfs(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

var _ wristband.PowerManager = &hostPower{}
