// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// wristband runs the watchface on the wristband board, or on a terminal
// simulation of its panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/wristband/battery"
	"github.com/GermanBionicSystems/wristband/internal/config"
	"github.com/GermanBionicSystems/wristband/internal/face"
	"github.com/GermanBionicSystems/wristband/internal/log"
	"github.com/GermanBionicSystems/wristband/touch"
	"github.com/robfig/cron/v3"
	"periph.io/x/host/v3"
)

const updateInterval = 20 * time.Millisecond

func main() {
	if err := mainImpl(); err != nil {
		log.Error("wristband failed", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "/etc/wristband/config.yaml", "path to the configuration file")
	sim := flag.Bool("sim", false, "render the panel in the terminal instead of driving the hardware")
	once := flag.Bool("once", false, "draw the watchface once and exit")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %v", flag.Args())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *sim {
		cfg.Simulator = true
	}
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.Info("wristband starting", "config", *configPath, "simulator", cfg.Simulator)

	var b *board
	if cfg.Simulator {
		b, err = newSimBoard(cfg, os.Stdout)
	} else {
		if _, err = host.Init(); err != nil {
			return err
		}
		b, err = newBoard(cfg)
	}
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.start(cfg); err != nil {
		return err
	}
	if *once {
		return b.refresh()
	}
	return b.run(cfg)
}

// start brings the board up and applies the display settings.
func (b *board) start(cfg *config.Config) error {
	w := b.w
	if err := w.Begin(); err != nil {
		return err
	}
	if err := w.SetRotation(uint8(cfg.Display.Rotation)); err != nil {
		return err
	}
	if cfg.Display.FlipHorizontal {
		if err := w.FlipHorizontal(true); err != nil {
			return err
		}
	}
	if err := w.SetBrightness(uint8(cfg.Display.Brightness)); err != nil {
		return err
	}
	r, err := face.New(w.Width(), w.Height())
	if err != nil {
		return err
	}
	b.face = r
	if rtc := w.RTC(); rtc != nil {
		if now, err := rtc.Now(); err != nil {
			log.Error("reading rtc failed", err)
		} else {
			log.Info("rtc", "time", now.Format(time.RFC3339))
		}
	}
	return nil
}

// refresh draws the watchface.
func (b *board) refresh() error {
	w := b.w
	pct := -1
	if p, err := w.BatteryPercent(); err == nil {
		pct = p
	}
	img := b.face.Render(b.now(), pct)
	if err := w.Panel().Draw(w.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	if b.sim != nil && b.render {
		return b.sim.Refresh()
	}
	return nil
}

func (b *board) reportBattery() {
	mv, err := b.w.BattVoltage()
	if err != nil {
		log.Debug("battery unavailable", "err", err)
		return
	}
	log.Info("battery", "mv", mv, "percent", battery.Percent(mv))
}

// run schedules the refresh jobs and services the board until SIGINT or
// SIGTERM.
func (b *board) run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	requests := make(chan func() error, 4)
	enqueue := func(f func() error) func() {
		return func() {
			select {
			case requests <- f:
			default:
				log.Debug("job skipped, loop busy")
			}
		}
	}
	c := cron.New()
	if _, err := c.AddFunc(cfg.Refresh, enqueue(b.refresh)); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", cfg.Refresh, err)
	}
	if _, err := c.AddFunc(cfg.BatteryReport, enqueue(func() error { b.reportBattery(); return nil })); err != nil {
		return fmt.Errorf("battery schedule %q: %w", cfg.BatteryReport, err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	b.w.OnButton(func(e touch.Event) {
		log.Debug("button", "event", e)
		switch e {
		case touch.Clicked:
			enqueue(b.refresh)()
		case touch.LongPressed:
			enqueue(b.suspend(enqueue(b.refresh)))()
		}
	})
	b.attachRTC(enqueue(b.refresh))

	if err := b.refresh(); err != nil {
		return err
	}
	t := time.NewTicker(updateInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("signal received, shutting down")
			return nil
		case f := <-requests:
			if err := f(); err != nil {
				log.Error("job failed", err)
			}
		case <-t.C:
			if err := b.w.Update(); err != nil {
				log.Error("update failed", err)
			}
		}
	}
}

// attachRTC calls onAlarm on each RTC interrupt.
func (b *board) attachRTC(onAlarm func()) {
	if err := b.w.AttachRTC(onAlarm); err != nil {
		log.Debug("rtc interrupt unavailable", "err", err)
	}
}

// suspend returns a job putting the board in deep sleep until the touch pad
// wakes it up. Sleep detaches the RTC interrupt so it is attached again to
// onAlarm on resume.
func (b *board) suspend(onAlarm func()) func() error {
	return func() error {
		if err := b.w.EnableTouchWakeup(); err != nil {
			return err
		}
		log.Info("entering deep sleep")
		if err := b.w.Sleep(); err != nil {
			return err
		}
		if err := b.w.Wakeup(); err != nil {
			return err
		}
		b.attachRTC(onAlarm)
		log.Info("resumed")
		return b.refresh()
	}
}
