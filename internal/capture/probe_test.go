// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	internal_capture "github.com/rapidaai/callrecorder/internal/capture"
	"github.com/rapidaai/callrecorder/internal/capture/capturetest"
	"github.com/rapidaai/callrecorder/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-capture"),
		commons.Path(t.TempDir()),
		commons.Level("debug"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func outputPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nested", "dir", "5551234_240101_120000000.amr")
}

func TestCandidatesOrder(t *testing.T) {
	c := internal_capture.Candidates()
	require.Len(t, c, 16)

	want := []internal_capture.Configuration{
		{Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrWb, Encoder: internal_capture.EncoderAmrWb, SampleRate: 16000, Channels: 2},
		{Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrWb, Encoder: internal_capture.EncoderAmrWb, SampleRate: 16000, Channels: 1},
		{Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrWb, Encoder: internal_capture.EncoderAmrWb, SampleRate: 8000, Channels: 2},
		{Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrWb, Encoder: internal_capture.EncoderAmrWb, SampleRate: 8000, Channels: 1},
		{Source: internal_capture.SourceVoiceCall, Format: internal_capture.FormatAmrNb, Encoder: internal_capture.EncoderAmrNb, SampleRate: 16000, Channels: 2},
	}
	assert.Equal(t, want, c[:len(want)])

	// the microphone half mirrors the voice call half
	for i := 0; i < 8; i++ {
		assert.Equal(t, internal_capture.SourceVoiceCall, c[i].Source)
		mic := c[i+8]
		assert.Equal(t, internal_capture.SourceMicrophone, mic.Source)
		mic.Source = internal_capture.SourceVoiceCall
		assert.Equal(t, c[i], mic)
	}
	last := c[15]
	assert.Equal(t, internal_capture.FormatAmrNb, last.Format)
	assert.Equal(t, 8000, last.SampleRate)
	assert.Equal(t, 1, last.Channels)
}

func TestCandidatesEncoderMatchesFormat(t *testing.T) {
	for _, c := range internal_capture.Candidates() {
		switch c.Format {
		case internal_capture.FormatAmrWb:
			assert.Equal(t, internal_capture.EncoderAmrWb, c.Encoder)
		case internal_capture.FormatAmrNb:
			assert.Equal(t, internal_capture.EncoderAmrNb, c.Encoder)
		}
	}
}

func TestProbe_FirstCandidateWins(t *testing.T) {
	factory := &capturetest.Factory{}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New)
	path := outputPath(t)

	pipeline, err := probe.Acquire(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, pipeline)

	attempts := factory.Attempts()
	require.Len(t, attempts, 1, "no further candidates may be tried after a success")
	assert.Equal(t, internal_capture.Candidates()[0], attempts[0])
	assert.Equal(t, attempts[0], pipeline.Configuration())
	assert.Equal(t, path, pipeline.OutputPath())
	assert.Equal(t, 1, factory.Running())
	assert.Equal(t, []string{"configure", "output", "prepare", "start"}, factory.Calls())
	assert.FileExists(t, path, "parent directories are created")

	require.NoError(t, pipeline.Stop(context.Background()))
	assert.Equal(t, 0, factory.Running())
	assert.Equal(t, 1, factory.Released())
}

func TestProbe_OnlyFirstOfThreeAttempted(t *testing.T) {
	all := internal_capture.Candidates()
	factory := &capturetest.Factory{}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New,
		internal_capture.WithCandidates(all[:3]))

	_, err := probe.Acquire(context.Background(), outputPath(t))
	require.NoError(t, err)
	assert.Equal(t, all[:1], factory.Attempts())
}

func TestProbe_FallsBackInOrder(t *testing.T) {
	// only mono narrowband microphone works, the very last candidate
	factory := &capturetest.Factory{
		Fail: capturetest.SucceedOn(func(c internal_capture.Configuration) bool {
			return c.Source == internal_capture.SourceMicrophone &&
				c.Format == internal_capture.FormatAmrNb && c.SampleRate == 8000 && c.Channels == 1
		}),
	}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New)

	pipeline, err := probe.Acquire(context.Background(), outputPath(t))
	require.NoError(t, err)
	assert.Equal(t, internal_capture.Candidates(), factory.Attempts())
	assert.Equal(t, internal_capture.Candidates()[15], pipeline.Configuration())
	assert.Equal(t, 1, factory.Created(), "one device is reused across candidates")
	assert.Equal(t, 0, factory.Released())
}

func TestProbe_AllCandidatesFail(t *testing.T) {
	steps := []string{
		capturetest.StepConfigure,
		capturetest.StepOutput,
		capturetest.StepPrepare,
		capturetest.StepStart,
	}
	for _, step := range steps {
		t.Run(step, func(t *testing.T) {
			factory := &capturetest.Factory{Fail: capturetest.FailAlways(step)}
			probe := internal_capture.NewProbe(newTestLogger(t), factory.New)
			path := outputPath(t)

			pipeline, err := probe.Acquire(context.Background(), path)
			assert.Nil(t, pipeline)
			assert.ErrorIs(t, err, internal_capture.ErrConfigurationsExhausted)
			assert.NotErrorIs(t, err, internal_capture.ErrProbeAborted)
			assert.Len(t, factory.Attempts(), 16)
			assert.Equal(t, 1, factory.Released(), "device is released after exhaustion")
			assert.Equal(t, 0, factory.Running())

			_, statErr := os.Stat(path)
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "no partial file may remain")
		})
	}
}

func TestProbe_ResetBetweenCandidates(t *testing.T) {
	all := internal_capture.Candidates()
	factory := &capturetest.Factory{
		Fail: capturetest.SucceedOn(func(c internal_capture.Configuration) bool { return c == all[1] }),
	}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New)

	_, err := probe.Acquire(context.Background(), outputPath(t))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"configure", "output", "prepare", "start", "reset",
		"configure", "output", "prepare", "start",
	}, factory.Calls())
}

func TestProbe_MaxAttempts(t *testing.T) {
	factory := &capturetest.Factory{Fail: capturetest.FailAlways(capturetest.StepStart)}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New, internal_capture.WithMaxAttempts(3))

	_, err := probe.Acquire(context.Background(), outputPath(t))
	assert.ErrorIs(t, err, internal_capture.ErrConfigurationsExhausted)
	assert.ErrorIs(t, err, internal_capture.ErrProbeAborted)
	assert.Len(t, factory.Attempts(), 3)
	assert.Equal(t, 1, factory.Released())
}

func TestProbe_Timeout(t *testing.T) {
	factory := &capturetest.Factory{
		Fail:       capturetest.FailAlways(capturetest.StepStart),
		StartDelay: 20 * time.Millisecond,
	}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New, internal_capture.WithTimeout(50*time.Millisecond))

	_, err := probe.Acquire(context.Background(), outputPath(t))
	assert.ErrorIs(t, err, internal_capture.ErrProbeAborted)
	assert.Less(t, len(factory.Attempts()), 16)
	assert.Equal(t, 1, factory.Released())
}

func TestProbe_IgnoresCallerCancellation(t *testing.T) {
	factory := &capturetest.Factory{}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pipeline, err := probe.Acquire(ctx, outputPath(t))
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	_ = pipeline.Stop(context.Background())
}

type panickingDevice struct{ internal_capture.Device }

func (panickingDevice) Configure(internal_capture.Configuration) error { panic("driver crashed") }
func (panickingDevice) Reset()                                         {}
func (panickingDevice) Release()                                       {}

func TestProbe_RecoversDevicePanic(t *testing.T) {
	probe := internal_capture.NewProbe(newTestLogger(t), func() internal_capture.Device { return panickingDevice{} })

	_, err := probe.Acquire(context.Background(), outputPath(t))
	assert.ErrorIs(t, err, internal_capture.ErrConfigurationsExhausted)
}

func TestPipelineStop_ReleasesOnError(t *testing.T) {
	factory := &capturetest.Factory{StopErr: errors.New("stop failed")}
	probe := internal_capture.NewProbe(newTestLogger(t), factory.New)

	pipeline, err := probe.Acquire(context.Background(), outputPath(t))
	require.NoError(t, err)
	assert.Error(t, pipeline.Stop(context.Background()))
	assert.Equal(t, 1, factory.Released())
	assert.Equal(t, 0, factory.Running())
}
