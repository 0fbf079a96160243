// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package capturetest provides a scriptable in-process capture device for
// tests of the probe and the recording session.
package capturetest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
)

// Step names passed to FailFunc.
const (
	StepConfigure = "configure"
	StepOutput    = "output"
	StepPrepare   = "prepare"
	StepStart     = "start"
)

// ErrScripted is the error returned for scripted failures.
var ErrScripted = errors.New("scripted device failure")

// FailFunc decides whether a step fails for a candidate. Returning nil lets
// the step succeed.
type FailFunc func(step string, c internal_capture.Configuration) error

// FailAlways fails every candidate at the given step.
func FailAlways(step string) FailFunc {
	return func(s string, _ internal_capture.Configuration) error {
		if s == step {
			return ErrScripted
		}
		return nil
	}
}

// SucceedOn lets only the candidate matching pred start.
func SucceedOn(pred func(internal_capture.Configuration) bool) FailFunc {
	return func(s string, c internal_capture.Configuration) error {
		if s == StepStart && !pred(c) {
			return ErrScripted
		}
		return nil
	}
}

// Factory creates fake devices and records everything they are asked to do.
type Factory struct {
	Fail       FailFunc
	StopErr    error
	StartDelay time.Duration

	mu       sync.Mutex
	attempts []internal_capture.Configuration
	calls    []string
	created  int
	released int
	running  int

	inflight   atomic.Int32
	violations atomic.Int32
}

// New satisfies internal_capture.DeviceFactory.
func (f *Factory) New() internal_capture.Device {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return &device{factory: f}
}

// Attempts lists the candidates passed to Configure, in order.
func (f *Factory) Attempts() []internal_capture.Configuration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]internal_capture.Configuration(nil), f.attempts...)
}

// Calls lists every device call, in order.
func (f *Factory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *Factory) Released() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// Running is the number of devices currently capturing.
func (f *Factory) Running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Violations counts device calls that overlapped with another call.
func (f *Factory) Violations() int {
	return int(f.violations.Load())
}

func (f *Factory) enter(call string) func() {
	if f.inflight.Add(1) > 1 {
		f.violations.Add(1)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return func() { f.inflight.Add(-1) }
}

func (f *Factory) fail(step string, c internal_capture.Configuration) error {
	if f.Fail == nil {
		return nil
	}
	return f.Fail(step, c)
}

type device struct {
	factory    *Factory
	config     internal_capture.Configuration
	configured bool
	file       *os.File
	running    bool
	released   bool
}

func (d *device) Configure(c internal_capture.Configuration) error {
	defer d.factory.enter("configure")()
	if d.released {
		return errors.New("device released")
	}
	d.factory.mu.Lock()
	d.factory.attempts = append(d.factory.attempts, c)
	d.factory.mu.Unlock()
	if err := d.factory.fail(StepConfigure, c); err != nil {
		return err
	}
	d.config = c
	d.configured = true
	return nil
}

func (d *device) SetOutput(path string) error {
	defer d.factory.enter("output")()
	if !d.configured {
		return errors.New("output set before configure")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	d.file = file
	if err := d.factory.fail(StepOutput, d.config); err != nil {
		return err
	}
	return nil
}

func (d *device) Prepare() error {
	defer d.factory.enter("prepare")()
	if d.file == nil {
		return errors.New("prepare without output")
	}
	return d.factory.fail(StepPrepare, d.config)
}

func (d *device) Start(ctx context.Context) error {
	defer d.factory.enter("start")()
	if d.factory.StartDelay > 0 {
		time.Sleep(d.factory.StartDelay)
	}
	// partial header so failed attempts leave something to clean up
	if _, err := fmt.Fprintf(d.file, "#!%s\n", d.config.Format); err != nil {
		return err
	}
	if err := d.factory.fail(StepStart, d.config); err != nil {
		return err
	}
	d.running = true
	d.factory.mu.Lock()
	d.factory.running++
	d.factory.mu.Unlock()
	return nil
}

func (d *device) Stop(ctx context.Context) error {
	defer d.factory.enter("stop")()
	if !d.running {
		return errors.New("stop called while not running")
	}
	d.halt()
	return d.factory.StopErr
}

func (d *device) Reset() {
	defer d.factory.enter("reset")()
	d.halt()
	d.configured = false
}

func (d *device) Release() {
	defer d.factory.enter("release")()
	if d.released {
		return
	}
	d.halt()
	d.released = true
	d.factory.mu.Lock()
	d.factory.released++
	d.factory.mu.Unlock()
}

func (d *device) halt() {
	if d.running {
		d.running = false
		d.factory.mu.Lock()
		d.factory.running--
		d.factory.mu.Unlock()
	}
	if d.file != nil {
		_ = d.file.Close()
		d.file = nil
	}
}
