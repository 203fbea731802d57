// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wristband

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/GermanBionicSystems/wristband/battery"
	"github.com/GermanBionicSystems/wristband/bhi260ap"
	"github.com/GermanBionicSystems/wristband/internal/log"
	"github.com/GermanBionicSystems/wristband/jd9613"
	"github.com/GermanBionicSystems/wristband/max3010x"
	"github.com/GermanBionicSystems/wristband/pcf85063"
	"github.com/GermanBionicSystems/wristband/touch"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Microphone settings of the PDM microphone.
const (
	MicSampleRate    = 16000
	MicBitsPerSample = 16
)

// DefaultTouchThreshold is the touch wakeup threshold used when
// Opts.TouchThreshold is 0.
const DefaultTouchThreshold = 2000

const (
	toneFrequency  = physic.KiloHertz
	startupBuzz    = 50 * time.Millisecond
	touchDebounce  = 50 * time.Millisecond
	rtcPollTimeout = 100 * time.Millisecond
)

var (
	// ErrNotBegun is returned by panel operations before Begin succeeded.
	ErrNotBegun = errors.New("wristband: Begin was not called")
	// ErrNotFitted is returned when the part needed by an operation was not
	// provided in Opts.
	ErrNotFitted = errors.New("wristband: part not fitted")
)

// Microphone is the PDM microphone capture interface.
type Microphone interface {
	// Install configures capture at sampleRate with bits per sample.
	Install(sampleRate, bits int) error
	// Read fills p with samples, waiting at most timeout.
	Read(p []byte, timeout time.Duration) (int, error)
}

// PowerManager controls the low power states of the host.
type PowerManager interface {
	// EnableTouchWakeup arms the touch pad as a wakeup source.
	EnableTouchWakeup(threshold int) error
	// DeepSleep suspends the host. It returns only on failure or once the
	// host resumed.
	DeepSleep() error
}

// Opts describes the parts fitted on the board. Every field is optional
// except Panel.
type Opts struct {
	// Panel builds the display driver. It is called once by Begin.
	Panel func() (*jd9613.Dev, error)

	// I2C is the bus shared by RTC and Particle. It is closed by Sleep.
	I2C      i2c.BusCloser
	RTC      *pcf85063.Dev
	RTCIRQ   gpio.PinIn
	Particle *max3010x.Dev

	Motion       *bhi260ap.Dev
	MotionEnable gpio.PinOut

	Touch          gpio.PinIn
	TouchThreshold int

	Vibration  gpio.PinOut
	Battery    battery.ADC
	Microphone Microphone
	Power      PowerManager
}

// Dev is the wristband board.
type Dev struct {
	opts      Opts
	panel     *jd9613.Dev
	pad       *touch.Pad
	button    *touch.Button
	batt      *battery.Dev
	threshold int

	rtcOnline    bool
	motionOnline bool
	micReady     bool

	rtcStop chan struct{}
	rtcDone chan struct{}

	sleep func(time.Duration)
}

// New returns a board handle. No I/O is done until Begin.
func New(opts *Opts) *Dev {
	d := &Dev{opts: *opts, sleep: time.Sleep}
	d.threshold = opts.TouchThreshold
	if d.threshold <= 0 {
		d.threshold = DefaultTouchThreshold
	}
	if opts.Touch != nil {
		d.pad = touch.NewPad(opts.Touch)
		d.button = touch.NewButton(d.pad.Pressed, touchDebounce)
	}
	return d
}

func (d *Dev) String() string {
	if d.panel == nil {
		return "wristband{}"
	}
	return fmt.Sprintf("wristband{%s}", d.panel)
}

// Begin brings up the panel and the peripherals.
//
// Only a panel failure is returned. Peripherals that fail to initialize are
// logged and stay offline. Calling Begin again after success is a no-op.
func (d *Dev) Begin() error {
	if d.panel != nil {
		return nil
	}
	if d.opts.Panel == nil {
		return errors.New("wristband: a panel is required")
	}
	p, err := d.opts.Panel()
	if err != nil {
		return err
	}
	p.EnableDebug(log.Debugf)
	if err := p.Reset(); err != nil {
		_ = p.Halt()
		return err
	}
	if err := p.Init(); err != nil {
		_ = p.Halt()
		return err
	}
	d.panel = p
	log.Info("panel ready", "panel", p, "brightness", p.Brightness())

	if d.pad != nil {
		if err := d.pad.Attach(); err != nil {
			log.Error("touch button initialization failed", err)
		}
	}
	if d.opts.Vibration != nil {
		if err := d.Vibration(0, startupBuzz); err != nil {
			log.Error("vibration motor failed", err)
		}
	}
	if d.opts.Battery != nil {
		if d.batt, err = battery.New(d.opts.Battery); err != nil {
			log.Error("battery initialization failed", err)
		}
	}

	if d.opts.RTC != nil {
		if err := d.opts.RTC.Init(); err != nil {
			log.Error("real time clock initialization failed", err)
		} else {
			d.rtcOnline = true
		}
	}

	if d.opts.MotionEnable != nil {
		if err := d.opts.MotionEnable.Out(gpio.High); err != nil {
			log.Error("motion sensor enable failed", err)
		}
	}
	if d.opts.Motion != nil {
		d.opts.Motion.EnableDebug(log.Debugf)
		if err := d.opts.Motion.Init(); err != nil {
			log.Error("motion sensor initialization failed", err)
		} else {
			d.motionOnline = true
		}
	}

	if d.opts.Particle != nil {
		if err := d.opts.Particle.Init(); err != nil {
			log.Error("particle sensor initialization failed", err)
		}
	}
	return nil
}

// Update services the motion sensor and the touch button. Call it from the
// main loop.
func (d *Dev) Update() error {
	var err error
	if d.motionOnline {
		err = d.opts.Motion.Update()
	}
	if d.button != nil {
		d.button.Update()
	}
	return err
}

// OnButton sets the handler of the debounced touch button events.
func (d *Dev) OnButton(f func(touch.Event)) {
	if d.button != nil {
		d.button.OnEvent(f)
	}
}

// Sleep puts the panel to sleep, releases the I²C bus and enters deep sleep.
//
// It only returns on failure.
func (d *Dev) Sleep() error {
	if d.panel == nil {
		return ErrNotBegun
	}
	if err := d.panel.SleepIn(); err != nil {
		return err
	}
	d.detachRTC()
	if d.opts.I2C != nil {
		if err := d.opts.I2C.Close(); err != nil {
			log.Error("closing i2c bus failed", err)
		}
		d.opts.I2C = nil
		d.rtcOnline = false
	}
	if d.opts.Power == nil {
		return fmt.Errorf("wristband: deep sleep: %w", ErrNotFitted)
	}
	return d.opts.Power.DeepSleep()
}

// Wakeup takes the panel out of sleep.
func (d *Dev) Wakeup() error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.SleepOut()
}

// Panel returns the display driver, nil before Begin.
func (d *Dev) Panel() *jd9613.Dev {
	return d.panel
}

// SetBrightness sets the panel brightness.
func (d *Dev) SetBrightness(level uint8) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.SetBrightness(level)
}

// Brightness returns the last brightness set.
func (d *Dev) Brightness() uint8 {
	if d.panel == nil {
		return jd9613.DefaultBrightness
	}
	return d.panel.Brightness()
}

// Width returns the width seen by DrawBitmap callers.
func (d *Dev) Width() int {
	if d.panel == nil {
		return 0
	}
	return d.panel.Bounds().Dx()
}

// Height returns the height seen by DrawBitmap callers.
func (d *Dev) Height() int {
	if d.panel == nil {
		return 0
	}
	return d.panel.Bounds().Dy()
}

// Bounds returns the caller visible geometry.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.Width(), d.Height())
}

// SetRotation sets the panel rotation.
func (d *Dev) SetRotation(r uint8) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.SetRotation(r)
}

// Rotation returns the panel rotation.
func (d *Dev) Rotation() uint8 {
	if d.panel == nil {
		return 0
	}
	return d.panel.Rotation()
}

// FlipHorizontal mirrors the panel.
func (d *Dev) FlipHorizontal(enable bool) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.FlipHorizontal(enable)
}

// SetAddrWindow sets the controller write window without rotation.
func (d *Dev) SetAddrWindow(x, y, w, h int) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.SetAddrWindow(x, y, w, h)
}

// PushColors writes pixels to the current window.
func (d *Dev) PushColors(pixels []uint16) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.PushColors(pixels)
}

// DrawBitmap blits pixels; see jd9613.Dev.DrawBitmap.
func (d *Dev) DrawBitmap(xStart, yStart, xEnd, yEnd int, pixels []uint16) error {
	if d.panel == nil {
		return ErrNotBegun
	}
	return d.panel.DrawBitmap(xStart, yStart, xEnd, yEnd, pixels)
}

// NeedFullRefresh reports whether every frame must be sent whole. The
// controller holds only half a frame of RAM, so it is always true.
func (d *Dev) NeedFullRefresh() bool {
	return true
}

// BattVoltage returns the battery voltage in mV.
func (d *Dev) BattVoltage() (uint16, error) {
	if d.batt == nil {
		return 0, fmt.Errorf("wristband: battery: %w", ErrNotFitted)
	}
	return d.batt.MilliVolts()
}

// BatteryPercent returns the battery charge estimate.
func (d *Dev) BatteryPercent() (int, error) {
	mv, err := d.BattVoltage()
	if err != nil {
		return 0, err
	}
	return battery.Percent(mv), nil
}

// Vibration drives the motor with a 1kHz tone for dur.
//
// duty is the tone duty cycle over 255; 0 means a square wave.
func (d *Dev) Vibration(duty uint8, dur time.Duration) error {
	if d.opts.Vibration == nil {
		return fmt.Errorf("wristband: vibration: %w", ErrNotFitted)
	}
	dc := gpio.DutyHalf
	if duty != 0 {
		dc = gpio.Duty(int64(duty) * int64(gpio.DutyMax) / 255)
	}
	if err := d.opts.Vibration.PWM(dc, toneFrequency); err != nil {
		return fmt.Errorf("wristband: vibration: %w", err)
	}
	d.sleep(dur)
	if err := d.opts.Vibration.Out(gpio.Low); err != nil {
		return fmt.Errorf("wristband: vibration: %w", err)
	}
	return nil
}

// InitMicrophone configures the microphone for 16kHz 16 bits capture.
func (d *Dev) InitMicrophone() error {
	if d.opts.Microphone == nil {
		return fmt.Errorf("wristband: microphone: %w", ErrNotFitted)
	}
	if err := d.opts.Microphone.Install(MicSampleRate, MicBitsPerSample); err != nil {
		return fmt.Errorf("wristband: microphone: %w", err)
	}
	d.micReady = true
	log.Info("microphone ready", "rate", MicSampleRate, "bits", MicBitsPerSample)
	return nil
}

// ReadMicrophone reads captured samples into p.
func (d *Dev) ReadMicrophone(p []byte, timeout time.Duration) (int, error) {
	if !d.micReady {
		return 0, errors.New("wristband: microphone not initialized")
	}
	return d.opts.Microphone.Read(p, timeout)
}

// Touched reports a touch latched since the last call while the pad is
// still touched.
func (d *Dev) Touched() bool {
	return d.pad != nil && d.pad.Touched()
}

// IsPressed returns the current level of the touch pad.
func (d *Dev) IsPressed() bool {
	return d.pad != nil && d.pad.Pressed()
}

// SetTouchThreshold sets the threshold handed to the power manager by
// EnableTouchWakeup and re-attaches the pad.
func (d *Dev) SetTouchThreshold(threshold int) error {
	if threshold <= 0 {
		return fmt.Errorf("wristband: touch threshold %d must be positive", threshold)
	}
	if d.pad == nil {
		return fmt.Errorf("wristband: touch: %w", ErrNotFitted)
	}
	d.threshold = threshold
	return d.pad.Attach()
}

// DetachTouch stops latching touches.
func (d *Dev) DetachTouch() {
	if d.pad != nil {
		d.pad.Detach()
	}
}

// EnableTouchWakeup arms the touch pad as a deep sleep wakeup source at the
// current touch threshold.
func (d *Dev) EnableTouchWakeup() error {
	if d.opts.Power == nil {
		return fmt.Errorf("wristband: touch wakeup: %w", ErrNotFitted)
	}
	return d.opts.Power.EnableTouchWakeup(d.threshold)
}

// TouchThreshold returns the current touch threshold.
func (d *Dev) TouchThreshold() int {
	return d.threshold
}

// AttachRTC calls cb from a background goroutine on each falling edge of
// the RTC interrupt line. A previous callback is replaced.
func (d *Dev) AttachRTC(cb func()) error {
	if d.opts.RTCIRQ == nil {
		return fmt.Errorf("wristband: rtc irq: %w", ErrNotFitted)
	}
	d.detachRTC()
	if err := d.opts.RTCIRQ.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("wristband: rtc irq: %w", err)
	}
	d.rtcStop = make(chan struct{})
	d.rtcDone = make(chan struct{})
	go watchEdges(d.opts.RTCIRQ, cb, d.rtcStop, d.rtcDone)
	return nil
}

func (d *Dev) detachRTC() {
	if d.rtcStop == nil {
		return
	}
	close(d.rtcStop)
	<-d.rtcDone
	d.rtcStop, d.rtcDone = nil, nil
	_ = d.opts.RTCIRQ.In(gpio.PullUp, gpio.NoEdge)
}

func watchEdges(p gpio.PinIn, cb func(), stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		if p.WaitForEdge(rtcPollTimeout) {
			cb()
		}
	}
}

// RTC returns the real time clock, nil when offline.
func (d *Dev) RTC() *pcf85063.Dev {
	if !d.rtcOnline {
		return nil
	}
	return d.opts.RTC
}

// Motion returns the motion sensor, nil when offline.
func (d *Dev) Motion() *bhi260ap.Dev {
	if !d.motionOnline {
		return nil
	}
	return d.opts.Motion
}

// Particle returns the pulse oximeter, nil when offline.
func (d *Dev) Particle() *max3010x.Dev {
	if d.opts.Particle == nil || !d.opts.Particle.Online() {
		return nil
	}
	return d.opts.Particle
}

// Halt stops the watchers and halts every part. The first error is
// returned.
func (d *Dev) Halt() error {
	var errs []error
	d.detachRTC()
	if d.pad != nil {
		errs = append(errs, d.pad.Halt())
	}
	if d.motionOnline {
		errs = append(errs, d.opts.Motion.Halt())
		d.motionOnline = false
	}
	if p := d.Particle(); p != nil {
		errs = append(errs, p.Halt())
	}
	if d.panel != nil {
		errs = append(errs, d.panel.Halt())
		d.panel = nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
