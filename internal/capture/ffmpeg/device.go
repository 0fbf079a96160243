// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/rapidaai/callrecorder/pkg/configs"
)

type deviceState int

const (
	stateUnconfigured deviceState = iota
	stateConfigured
	statePrepared
	stateRunning
	stateReleased
)

func (s deviceState) String() string {
	return [...]string{"unconfigured", "configured", "prepared", "running", "released"}[s]
}

var ErrDeviceReleased = errors.New("capture device released")

// encoderSpec is what the AMR codecs accept: a single rate, mono only.
type encoderSpec struct {
	codec      string
	sampleRate int
}

var encoders = map[internal_capture.AudioEncoder]encoderSpec{
	internal_capture.EncoderAmrWb: {codec: "libvo_amrwbenc", sampleRate: 16000},
	internal_capture.EncoderAmrNb: {codec: "libopencore_amrnb", sampleRate: 8000},
}

var formatEncoders = map[internal_capture.OutputFormat]internal_capture.AudioEncoder{
	internal_capture.FormatAmrWb: internal_capture.EncoderAmrWb,
	internal_capture.FormatAmrNb: internal_capture.EncoderAmrNb,
}

// device records through an ffmpeg child process whose stdout is the
// output file.
type device struct {
	logger      commons.Logger
	cfg         configs.CaptureConfig
	startSettle time.Duration
	stopTimeout time.Duration

	state  deviceState
	config internal_capture.Configuration
	input  string
	path   string
	file   *os.File
	cmd    *exec.Cmd
	stderr *tailBuffer
	exited chan error
}

// NewDeviceFactory returns a factory of ffmpeg devices. startSettle is how
// long a freshly started process must stay alive to count as capturing;
// stopTimeout bounds the graceful shutdown before the process is killed.
func NewDeviceFactory(logger commons.Logger, cfg configs.CaptureConfig, startSettle, stopTimeout time.Duration) internal_capture.DeviceFactory {
	return func() internal_capture.Device {
		return &device{
			logger:      logger,
			cfg:         cfg,
			startSettle: startSettle,
			stopTimeout: stopTimeout,
		}
	}
}

func (d *device) inputFor(source internal_capture.AudioSource) string {
	switch source {
	case internal_capture.SourceVoiceCall:
		return d.cfg.VoiceCallDevice
	case internal_capture.SourceMicrophone:
		return d.cfg.MicrophoneDevice
	}
	return ""
}

func (d *device) Configure(c internal_capture.Configuration) error {
	if d.state == stateReleased {
		return ErrDeviceReleased
	}
	if d.state != stateUnconfigured {
		return fmt.Errorf("configure called in state %s", d.state)
	}
	input := d.inputFor(c.Source)
	if input == "" {
		return fmt.Errorf("audio source %s is not available on this host", c.Source)
	}
	d.config = c
	d.input = input
	d.state = stateConfigured
	return nil
}

func (d *device) SetOutput(path string) error {
	if d.state != stateConfigured {
		return fmt.Errorf("output set in state %s", d.state)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	d.file = file
	d.path = path
	return nil
}

// Args builds the ffmpeg command line for a candidate reading from input.
func Args(inputFormat, input string, c internal_capture.Configuration) ([]string, error) {
	if formatEncoders[c.Format] != c.Encoder {
		return nil, fmt.Errorf("encoder %s cannot feed format %s", c.Encoder, c.Format)
	}
	spec, ok := encoders[c.Encoder]
	if !ok {
		return nil, fmt.Errorf("unsupported encoder %s", c.Encoder)
	}
	if c.SampleRate != spec.sampleRate {
		return nil, fmt.Errorf("encoder %s does not support %d Hz", c.Encoder, c.SampleRate)
	}
	if c.Channels != 1 {
		return nil, fmt.Errorf("encoder %s does not support %d channels", c.Encoder, c.Channels)
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-f", inputFormat,
		"-i", input,
		"-ac", strconv.Itoa(c.Channels),
		"-ar", strconv.Itoa(c.SampleRate),
		"-c:a", spec.codec,
		"-f", "amr",
		"pipe:1",
	}, nil
}

func (d *device) Prepare() error {
	if d.state != stateConfigured || d.file == nil {
		return fmt.Errorf("prepare called in state %s", d.state)
	}
	args, err := Args(d.cfg.InputFormat, d.input, d.config)
	if err != nil {
		return err
	}
	bin, err := exec.LookPath(d.cfg.FfmpegPath)
	if err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	d.stderr = newTailBuffer(4096)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = d.file
	cmd.Stderr = d.stderr
	d.cmd = cmd
	d.state = statePrepared
	return nil
}

func (d *device) Start(ctx context.Context) error {
	if d.state != statePrepared {
		return fmt.Errorf("start called in state %s", d.state)
	}
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}
	exited := make(chan error, 1)
	go func(cmd *exec.Cmd) { exited <- cmd.Wait() }(d.cmd)
	d.exited = exited
	d.state = stateRunning

	select {
	case err := <-exited:
		d.exited = nil
		d.state = statePrepared
		return fmt.Errorf("ffmpeg exited during startup: %v: %s", err, d.stderr.String())
	case <-time.After(d.startSettle):
		d.logger.Debugf("ffmpeg pid=%d capturing %s to %s", d.cmd.Process.Pid, d.input, d.path)
		return nil
	case <-ctx.Done():
		d.kill()
		return ctx.Err()
	}
}

func (d *device) Stop(ctx context.Context) error {
	if d.state != stateRunning {
		return fmt.Errorf("stop called in state %s", d.state)
	}
	defer d.closeFile()

	if err := d.cmd.Process.Signal(os.Interrupt); err != nil {
		d.logger.Warnf("unable to interrupt ffmpeg pid=%d: %v", d.cmd.Process.Pid, err)
	}
	timer := time.NewTimer(d.stopTimeout)
	defer timer.Stop()

	select {
	case <-d.exited:
		// ffmpeg reports a non-zero status when interrupted, that is a normal stop
		d.exited = nil
		d.state = statePrepared
		return nil
	case <-timer.C:
		d.kill()
		return fmt.Errorf("ffmpeg did not stop within %s, killed: %s", d.stopTimeout, d.stderr.String())
	case <-ctx.Done():
		d.kill()
		return ctx.Err()
	}
}

func (d *device) kill() {
	if d.exited == nil {
		return
	}
	if err := d.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		d.logger.Warnf("unable to kill ffmpeg pid=%d: %v", d.cmd.Process.Pid, err)
	}
	<-d.exited
	d.exited = nil
	d.state = statePrepared
}

func (d *device) closeFile() {
	if d.file == nil {
		return
	}
	if err := d.file.Sync(); err != nil {
		d.logger.Debugf("sync %s: %v", d.path, err)
	}
	if err := d.file.Close(); err != nil {
		d.logger.Warnf("closing %s: %v", d.path, err)
	}
	d.file = nil
}

func (d *device) Reset() {
	if d.state == stateReleased {
		return
	}
	d.kill()
	d.closeFile()
	d.cmd = nil
	d.stderr = nil
	d.path = ""
	d.input = ""
	d.state = stateUnconfigured
}

func (d *device) Release() {
	d.Reset()
	d.state = stateReleased
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
