// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rapidaai/callrecorder/pkg/commons"
)

var (
	// ErrConfigurationsExhausted is returned when no candidate could be
	// started on the device.
	ErrConfigurationsExhausted = errors.New("all capture configurations exhausted")
	// ErrProbeAborted marks an exhaustion caused by the attempt cap or the
	// probe timeout rather than by running out of candidates.
	ErrProbeAborted = errors.New("capture probe aborted")
)

// Probe walks the candidate list against a fresh device until one starts.
type Probe struct {
	logger      commons.Logger
	newDevice   DeviceFactory
	candidates  []Configuration
	maxAttempts int
	timeout     time.Duration
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithCandidates replaces the default candidate list. Order is preserved.
func WithCandidates(candidates []Configuration) ProbeOption {
	return func(p *Probe) {
		p.candidates = append([]Configuration(nil), candidates...)
	}
}

// WithMaxAttempts caps the number of candidates tried. Zero means no cap.
func WithMaxAttempts(n int) ProbeOption {
	return func(p *Probe) { p.maxAttempts = n }
}

// WithTimeout bounds the whole probe. Zero means no bound.
func WithTimeout(d time.Duration) ProbeOption {
	return func(p *Probe) { p.timeout = d }
}

func NewProbe(logger commons.Logger, newDevice DeviceFactory, opts ...ProbeOption) *Probe {
	p := &Probe{
		logger:     logger,
		newDevice:  newDevice,
		candidates: Candidates(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// attempt is the outcome of trying one candidate. A nil err means the
// device is running with that candidate.
type attempt struct {
	candidate Configuration
	step      string
	err       error
}

func (a attempt) ok() bool { return a.err == nil }

// Acquire configures, prepares and starts a device writing to outputPath.
// On success the returned pipeline owns a running device. On failure the
// device has been released and no file is left at outputPath.
//
// The caller's cancellation is not honoured mid-probe; only the configured
// timeout and attempt cap can cut the loop short, and they are checked
// between candidates.
func (p *Probe) Acquire(ctx context.Context, outputPath string) (*Pipeline, error) {
	ctx = context.WithoutCancel(ctx)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	device := p.newDevice()
	var abort error
	for i, candidate := range p.candidates {
		if p.maxAttempts > 0 && i >= p.maxAttempts {
			abort = fmt.Errorf("%w: attempt cap %d reached", ErrProbeAborted, p.maxAttempts)
			break
		}
		if err := ctx.Err(); err != nil {
			abort = fmt.Errorf("%w: %w", ErrProbeAborted, err)
			break
		}

		p.logger.Debugw("trying capture configuration",
			"attempt", i+1, "configuration", candidate.String(), "output", outputPath)
		result := p.try(ctx, device, candidate, outputPath)
		if result.ok() {
			p.logger.Infow("capture started",
				"attempt", i+1, "configuration", candidate.String(), "output", outputPath)
			return &Pipeline{
				device:        device,
				configuration: candidate,
				outputPath:    outputPath,
			}, nil
		}

		p.logger.Warnw("capture configuration failed, keep trying",
			"attempt", i+1, "configuration", candidate.String(), "step", result.step, "error", result.err)
		device.Reset()
		removePartial(p.logger, outputPath)
	}

	device.Reset()
	device.Release()
	removePartial(p.logger, outputPath)
	if abort != nil {
		p.logger.Warnw("capture probe aborted", "output", outputPath, "reason", abort)
		return nil, fmt.Errorf("%w: %w", ErrConfigurationsExhausted, abort)
	}
	p.logger.Warnw("no capture configuration could be started", "output", outputPath, "candidates", len(p.candidates))
	return nil, ErrConfigurationsExhausted
}

func (p *Probe) try(ctx context.Context, device Device, candidate Configuration, outputPath string) (result attempt) {
	result.candidate = candidate
	// a misbehaving device must not take the session down with it
	defer func() {
		if r := recover(); r != nil {
			result.err = fmt.Errorf("device panic: %v", r)
		}
	}()

	result.step = "configure"
	if result.err = device.Configure(candidate); result.err != nil {
		return result
	}
	result.step = "output"
	if result.err = os.MkdirAll(filepath.Dir(outputPath), 0o755); result.err != nil {
		return result
	}
	if result.err = device.SetOutput(outputPath); result.err != nil {
		return result
	}
	result.step = "prepare"
	if result.err = device.Prepare(); result.err != nil {
		return result
	}
	result.step = "start"
	result.err = device.Start(ctx)
	return result
}

func removePartial(logger commons.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("unable to delete partial recording %s: %v", path, err)
	}
}
