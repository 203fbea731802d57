// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_FirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "wristband.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, DefaultConfig()); diff != "" {
		t.Fatalf("config difference (-got +want):\n%s", diff)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if m := fi.Mode().Perm(); m != 0o600 {
		t.Fatalf("mode = %v, want 0600", m)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(again, cfg); diff != "" {
		t.Fatalf("reload difference (-got +want):\n%s", diff)
	}
}

func TestLoad_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wristband.yaml")
	data := "i2c: I2C1\n" +
		"display:\n" +
		"  spi: SPI1.0\n" +
		"  rotation: 7\n" +
		"  hardware_rotation: true\n" +
		"particle: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		LogLevel: "info",
		I2C:      "I2C1",
		Display: DisplayConfig{
			SPI:              "SPI1.0",
			HardwareRotation: true,
			Brightness:       defaultBrightness,
		},
		Touch:         TouchConfig{Threshold: defaultThreshold},
		Particle:      true,
		Refresh:       defaultRefresh,
		BatteryReport: defaultBatteryReport,
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("config difference (-got +want):\n%s", diff)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error")
	}
	path := filepath.Join(t.TempDir(), "wristband.yaml")
	if err := os.WriteFile(path, []byte("display: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestSave(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "x.yaml"), nil); err == nil {
		t.Fatal("expected error")
	}
	path := filepath.Join(t.TempDir(), "wristband.yaml")
	cfg := DefaultConfig()
	cfg.Simulator = true
	cfg.Display.Brightness = 0
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Simulator || got.Display.Brightness != defaultBrightness {
		t.Fatalf("unexpected %#v", got)
	}
}
